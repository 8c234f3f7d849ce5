package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID               int             `json:"id"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email,omitempty"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name,omitempty"`
	AddressLine      string          `json:"address_line,omitempty"`
	City             string          `json:"city,omitempty"`
	State            string          `json:"state,omitempty"`
	Pincode          string          `json:"pincode,omitempty"`
	TotalPurchases   int             `json:"total_purchases"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	LastPurchaseDate *time.Time      `json:"last_purchase_date,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DisplayName returns the full name used on invoices.
func (c *Customer) DisplayName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// IsReturning reports whether the customer qualifies for returning-customer
// treatment (at least two completed purchases).
func (c *Customer) IsReturning() bool {
	return c.TotalPurchases >= 2
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// UpdateCustomerRequest represents the request body for updating a customer
type UpdateCustomerRequest struct {
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}
