package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"gifts-backend/internal/cache"
	"gifts-backend/internal/models"
	"gifts-backend/internal/repositories"
)

var ErrCustomerQueryTooShort = errors.New("name query must be at least 3 characters")

// CustomerService resolves walk-in shoppers to customer records by phone or
// name and maintains their lifetime purchase totals.
type CustomerService struct {
	Repo *repositories.CustomerRepository
}

func NewCustomerService(repo *repositories.CustomerRepository) *CustomerService {
	return &CustomerService{Repo: repo}
}

// normalizePhone strips everything except digits so "+91 98765-43210" and
// "9876543210" match the same record.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	// Drop a leading country code when a 10-digit local number remains.
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return digits
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

// FindByPhone looks up a customer by exact phone match after normalization.
// A miss returns (nil, nil) so the counter can offer to create a record.
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	digits := normalizePhone(phone)
	if digits == "" {
		return nil, errors.New("phone number is required")
	}
	matches, err := s.Repo.FindByPhone(ctx, digits)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// FindByName does a partial match against the full name. Queries shorter
// than 3 characters are rejected to keep result sets usable at the counter.
func (s *CustomerService) FindByName(ctx context.Context, query string) ([]*models.Customer, error) {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return nil, ErrCustomerQueryTooShort
	}
	return s.Repo.FindByName(ctx, query)
}

// Draft builds an unpersisted customer with zeroed lifetime stats. Callers
// decide whether to save it; nothing is written here.
func (s *CustomerService) Draft(req *models.CreateCustomerRequest) (*models.Customer, error) {
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, errors.New("first name is required")
	}
	phone := normalizePhone(req.Phone)
	if phone == "" {
		return nil, errors.New("phone number is required")
	}
	return &models.Customer{
		Phone:       phone,
		Email:       strings.TrimSpace(req.Email),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		TotalSpent:  decimal.Zero,
	}, nil
}

// CreateCustomer registers a new customer, normalizing the phone first.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	customer, err := s.Draft(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindByPhone(ctx, customer.Phone)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errors.New("a customer with this phone already exists")
	}

	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	cache.InvalidateCustomerCaches(ctx)
	return customer, nil
}

// UpdateCustomer patches contact details. Empty request fields keep the
// stored value.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" {
		digits := normalizePhone(req.Phone)
		if digits == "" {
			return nil, errors.New("phone number is invalid")
		}
		customer.Phone = digits
	}
	if req.Email != "" {
		customer.Email = strings.TrimSpace(req.Email)
	}
	if req.FirstName != "" {
		customer.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		customer.LastName = strings.TrimSpace(req.LastName)
	}
	if req.AddressLine != "" {
		customer.AddressLine = req.AddressLine
	}
	if req.City != "" {
		customer.City = req.City
	}
	if req.State != "" {
		customer.State = req.State
	}
	if req.Pincode != "" {
		customer.Pincode = req.Pincode
	}

	if err := s.Repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	cache.InvalidateCustomerCaches(ctx)
	return customer, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.Repo.List(ctx)
}

// TopCustomers returns the biggest spenders, cached briefly for dashboards.
func (s *CustomerService) TopCustomers(ctx context.Context, limit int) ([]*models.Customer, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var cached []*models.Customer
	if limit == 10 && cache.GetJSON(ctx, cache.TopCustomersKey, &cached) {
		return cached, nil
	}

	customers, err := s.Repo.TopBySpend(ctx, limit)
	if err != nil {
		return nil, err
	}
	if limit == 10 {
		cache.SetJSON(ctx, cache.TopCustomersKey, customers, cache.TopCustomersTTL)
	}
	return customers, nil
}

// RecordPurchase bumps the customer's visit count and lifetime spend after a
// bill is finalized. Failures are logged by the caller and never block the sale.
func (s *CustomerService) RecordPurchase(ctx context.Context, customerID int, amount decimal.Decimal) error {
	if err := s.Repo.RecordPurchase(ctx, customerID, amount); err != nil {
		return err
	}
	cache.InvalidateCustomerCaches(ctx)
	log.Printf("[Customer] recorded purchase of %s for customer %d", amount.StringFixed(2), customerID)
	return nil
}
