package repositories

import (
	"context"

	"gifts-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, phone, COALESCE(email, '') as email, first_name, COALESCE(last_name, '') as last_name,
        COALESCE(address_line, '') as address_line, COALESCE(city, '') as city, COALESCE(state, '') as state,
        COALESCE(pincode, '') as pincode, total_purchases, total_spent, last_purchase_date, created_at, updated_at`

func scanCustomer(row interface{ Scan(dest ...any) error }) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Phone, &c.Email, &c.FirstName, &c.LastName,
		&c.AddressLine, &c.City, &c.State, &c.Pincode,
		&c.TotalPurchases, &c.TotalSpent, &c.LastPurchaseDate, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(phone, email, first_name, last_name, address_line, city, state, pincode, total_purchases, total_spent)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id, created_at, updated_at`,
		c.Phone, c.Email, c.FirstName, c.LastName, c.AddressLine, c.City, c.State, c.Pincode,
		c.TotalPurchases, c.TotalSpent,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	return scanCustomer(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1`, id))
}

// FindByPhone matches on the exact normalized phone digits.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone=$1`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

// FindByName matches a case-insensitive substring against the full name.
func (r *CustomerRepository) FindByName(ctx context.Context, substring string) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers
         WHERE (first_name || ' ' || COALESCE(last_name, '')) ILIKE '%' || $1 || '%'
         ORDER BY first_name`, substring)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

// TopBySpend returns the highest-value customers, most loyal first.
func (r *CustomerRepository) TopBySpend(ctx context.Context, limit int) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers
         WHERE total_purchases > 0 ORDER BY total_spent DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers SET phone=$1, email=$2, first_name=$3, last_name=$4, address_line=$5,
                city=$6, state=$7, pincode=$8, updated_at=CURRENT_TIMESTAMP
         WHERE id=$9`,
		c.Phone, c.Email, c.FirstName, c.LastName, c.AddressLine, c.City, c.State, c.Pincode, c.ID)
	return err
}

// RecordPurchase bumps the lifetime stats after a finalized sale. Applied
// exactly once per bill.
func (r *CustomerRepository) RecordPurchase(ctx context.Context, id int, billTotal decimal.Decimal) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers
         SET total_purchases = total_purchases + 1,
             total_spent = total_spent + $1,
             last_purchase_date = CURRENT_TIMESTAMP,
             updated_at = CURRENT_TIMESTAMP
         WHERE id = $2`,
		billTotal, id)
	return err
}

func collectCustomers(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Customer, error) {
	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}
