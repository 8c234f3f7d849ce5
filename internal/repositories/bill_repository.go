package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"gifts-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type BillRepository struct {
	DB *pgxpool.Pool
}

func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{DB: db}
}

// GenerateBillNumber returns the next unique human-readable bill number.
// Uses a database sequence for O(1) allocation.
func (r *BillRepository) GenerateBillNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('bill_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next bill number: %w", err)
	}
	return fmt.Sprintf("GB-%06d", nextNum), nil
}

// Create persists a finalized bill with its items, discounts and payments in
// one transaction. The bill snapshot is immutable after this point except for
// payment updates and the document reference.
func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if bill.BillNumber == "" {
		billNumber, err := r.GenerateBillNumber(ctx)
		if err != nil {
			return err
		}
		bill.BillNumber = billNumber
	}

	calc := bill.Calculations
	err = tx.QueryRow(ctx,
		`INSERT INTO bills(bill_number, customer_id, customer_name, customer_phone, customer_email,
                operator_id, subtotal, total_tax, total_discount, total, payment_status,
                bill_date, due_date, document_url, notes)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
         RETURNING id, created_at, updated_at`,
		bill.BillNumber, bill.CustomerID, bill.CustomerName, bill.CustomerPhone, bill.CustomerEmail,
		bill.OperatorID, calc.Subtotal, calc.TotalTax, calc.TotalDiscount, calc.Total,
		bill.PaymentStatus, bill.BillDate, bill.DueDate, bill.DocumentURL, bill.Notes,
	).Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt)
	if err != nil {
		return err
	}

	// position mirrors the ledger order; uuid ids carry no ordering.
	for i, item := range bill.Items {
		var variantJSON []byte
		if item.Variant != nil {
			variantJSON, err = json.Marshal(item.Variant)
			if err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO bill_items(id, bill_id, product_id, name, quantity, unit_price, tax_rate,
                    subtotal, tax_amount, total, variant, note, position)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			item.ID, bill.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.TaxRate,
			item.Subtotal, item.TaxAmount, item.Total, variantJSON, item.Note, i,
		)
		if err != nil {
			return err
		}
	}

	for i, d := range bill.Discounts {
		_, err = tx.Exec(ctx,
			`INSERT INTO bill_discounts(id, bill_id, kind, value, code, description, min_order, expires_at, cap, position)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			d.ID, bill.ID, d.Kind, d.Value, d.Code, d.Description, d.MinOrder, d.ExpiresAt, d.Cap, i,
		)
		if err != nil {
			return err
		}
	}

	for i, p := range bill.Payments {
		_, err = tx.Exec(ctx,
			`INSERT INTO bill_payments(id, bill_id, method, amount, reference, paid_at, position)
             VALUES($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, bill.ID, p.Method, p.Amount, p.Reference, p.PaidAt, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const billColumns = `id, bill_number, customer_id, COALESCE(customer_name, '') as customer_name,
        COALESCE(customer_phone, '') as customer_phone, COALESCE(customer_email, '') as customer_email,
        operator_id, subtotal, total_tax, total_discount, total, payment_status,
        bill_date, due_date, COALESCE(document_url, '') as document_url, COALESCE(notes, '') as notes,
        created_at, updated_at,
        (SELECT COALESCE(SUM(p.amount), 0) FROM bill_payments p WHERE p.bill_id = bills.id) as paid_total`

func scanBill(row interface{ Scan(dest ...any) error }) (*models.Bill, error) {
	var b models.Bill
	var paid decimal.Decimal
	err := row.Scan(&b.ID, &b.BillNumber, &b.CustomerID, &b.CustomerName, &b.CustomerPhone,
		&b.CustomerEmail, &b.OperatorID, &b.Calculations.Subtotal, &b.Calculations.TotalTax,
		&b.Calculations.TotalDiscount, &b.Calculations.Total, &b.PaymentStatus,
		&b.BillDate, &b.DueDate, &b.DocumentURL, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &paid)
	if err != nil {
		return nil, err
	}

	// BalanceDue is derived, never stored.
	balance := b.Calculations.Total.Sub(paid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	b.Calculations.BalanceDue = balance
	return &b, nil
}

// Get retrieves a bill with its items, discounts and payments.
func (r *BillRepository) Get(ctx context.Context, id int) (*models.Bill, error) {
	bill, err := scanBill(r.DB.QueryRow(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// GetByNumber retrieves a bill by its bill number.
func (r *BillRepository) GetByNumber(ctx context.Context, billNumber string) (*models.Bill, error) {
	bill, err := scanBill(r.DB.QueryRow(ctx,
		`SELECT `+billColumns+` FROM bills WHERE bill_number=$1`, billNumber))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// List returns bill headers newest first, optionally filtered by payment
// status. Children are not loaded for listings.
func (r *BillRepository) List(ctx context.Context, status string) ([]*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills`
	args := []any{}
	if status != "" {
		query += ` WHERE payment_status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT 200`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// ListByCustomer returns all bills for a customer, newest first.
func (r *BillRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Bill, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+billColumns+` FROM bills WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// AddPayment records a later payment against a persisted bill and moves its
// payment status. Only payment fields may change after finalization.
func (r *BillRepository) AddPayment(ctx context.Context, billID int, p models.PaymentDetails, newStatus string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO bill_payments(id, bill_id, method, amount, reference, paid_at, position)
         VALUES($1, $2, $3, $4, $5, $6,
                (SELECT COALESCE(MAX(position)+1, 0) FROM bill_payments WHERE bill_id=$2))`,
		p.ID, billID, p.Method, p.Amount, p.Reference, p.PaidAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE bills SET payment_status=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		newStatus, billID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateDocumentURL stores the reference to the uploaded invoice document.
func (r *BillRepository) UpdateDocumentURL(ctx context.Context, billID int, url string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE bills SET document_url=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		url, billID)
	return err
}

// Child rows come back in ledger order via the position column.
const (
	billItemsQuery = `SELECT id, product_id, name, quantity, unit_price, tax_rate, subtotal, tax_amount, total,
                variant, COALESCE(note, '') as note
         FROM bill_items WHERE bill_id=$1 ORDER BY position`
	billDiscountsQuery = `SELECT id, kind, value, COALESCE(code, '') as code, COALESCE(description, '') as description,
                min_order, expires_at, cap
         FROM bill_discounts WHERE bill_id=$1 ORDER BY position`
	billPaymentsQuery = `SELECT id, method, amount, COALESCE(reference, '') as reference, paid_at
         FROM bill_payments WHERE bill_id=$1 ORDER BY position`
)

func (r *BillRepository) loadChildren(ctx context.Context, bill *models.Bill) error {
	rows, err := r.DB.Query(ctx, billItemsQuery, bill.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.BillItem
		var variantJSON []byte
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice,
			&item.TaxRate, &item.Subtotal, &item.TaxAmount, &item.Total, &variantJSON, &item.Note); err != nil {
			return err
		}
		if len(variantJSON) > 0 {
			if err := json.Unmarshal(variantJSON, &item.Variant); err != nil {
				return err
			}
		}
		bill.Items = append(bill.Items, item)
	}
	rows.Close()

	drows, err := r.DB.Query(ctx, billDiscountsQuery, bill.ID)
	if err != nil {
		return err
	}
	defer drows.Close()

	for drows.Next() {
		var d models.Discount
		if err := drows.Scan(&d.ID, &d.Kind, &d.Value, &d.Code, &d.Description,
			&d.MinOrder, &d.ExpiresAt, &d.Cap); err != nil {
			return err
		}
		bill.Discounts = append(bill.Discounts, d)
	}
	drows.Close()

	prows, err := r.DB.Query(ctx, billPaymentsQuery, bill.ID)
	if err != nil {
		return err
	}
	defer prows.Close()

	for prows.Next() {
		var p models.PaymentDetails
		if err := prows.Scan(&p.ID, &p.Method, &p.Amount, &p.Reference, &p.PaidAt); err != nil {
			return err
		}
		bill.Payments = append(bill.Payments, p)
	}
	return nil
}
