package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/dbopen"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
)

// AddPurchase records a purchase for an existing customer and fills in its
// assigned ID. The owning customer must exist; a zero Date is stored as NULL
// (the record then carries no recency or bucketing signal).
func (s *Store) AddPurchase(ctx context.Context, p *engine.Purchase) error {
	if _, err := s.GetCustomer(ctx, p.CustomerID); err != nil {
		return err
	}

	var purchasedAt any
	if !p.Date.IsZero() {
		purchasedAt = p.Date.Unix()
	}
	res, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO purchases (customer_id, category, product, amount, payment_method, purchased_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.CustomerID, strings.TrimSpace(p.Category), strings.TrimSpace(p.Product),
		p.Amount, strings.TrimSpace(p.PaymentMethod), purchasedAt)
	if err != nil {
		return fmt.Errorf("store: insert purchase: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

// ListPurchases returns the whole transaction batch, joined with the owning
// customer's name for the aggregators, newest first (undated rows last).
func (s *Store) ListPurchases(ctx context.Context) ([]engine.Purchase, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.id, p.customer_id, COALESCE(c.name, ''), p.category, p.product,
		       p.amount, p.payment_method, p.purchased_at
		FROM purchases p
		LEFT JOIN customers c ON c.id = p.customer_id
		ORDER BY p.purchased_at DESC NULLS LAST, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list purchases: %w", err)
	}
	defer rows.Close()
	return collectPurchases(rows)
}

// ListPurchasesByCustomer returns all purchases owned by the customer.
func (s *Store) ListPurchasesByCustomer(ctx context.Context, customerID int64) ([]engine.Purchase, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.id, p.customer_id, COALESCE(c.name, ''), p.category, p.product,
		       p.amount, p.payment_method, p.purchased_at
		FROM purchases p
		LEFT JOIN customers c ON c.id = p.customer_id
		WHERE p.customer_id = ?
		ORDER BY p.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("store: list purchases for customer %d: %w", customerID, err)
	}
	defer rows.Close()
	return collectPurchases(rows)
}

func collectPurchases(rows *sql.Rows) ([]engine.Purchase, error) {
	purchases := []engine.Purchase{}
	for rows.Next() {
		var p engine.Purchase
		var purchasedAt sql.NullInt64
		err := rows.Scan(&p.ID, &p.CustomerID, &p.CustomerName, &p.Category,
			&p.Product, &p.Amount, &p.PaymentMethod, &purchasedAt)
		if err != nil {
			return nil, err
		}
		if purchasedAt.Valid {
			p.Date = time.Unix(purchasedAt.Int64, 0).UTC()
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
