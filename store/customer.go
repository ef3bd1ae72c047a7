package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/dbopen"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
)

// AddCustomer inserts a customer and fills in its assigned ID. The email is
// normalised to lower case before storage so uniqueness is case-insensitive.
// A zero JoinDate defaults to the current day.
func (s *Store) AddCustomer(ctx context.Context, c *engine.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.JoinDate.IsZero() {
		c.JoinDate = time.Now().UTC()
	}

	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM customers WHERE email = ?`, c.Email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("store: check email: %w", err)
		}
		if exists > 0 {
			return ErrDuplicateEmail
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO customers (name, email, phone, location, join_date)
			VALUES (?, ?, ?, ?, ?)`,
			c.Name, c.Email, strings.TrimSpace(c.Phone), strings.TrimSpace(c.Location),
			c.JoinDate.Format(joinDateLayout))
		if err != nil {
			return fmt.Errorf("store: insert customer: %w", err)
		}
		c.ID, err = res.LastInsertId()
		return err
	})
}

// GetCustomer returns the customer or engine.ErrNotFound.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*engine.Customer, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, phone, location, join_date
		FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %d: %w", id, engine.ErrNotFound)
	}
	return c, err
}

// ListCustomers returns all customers ordered by ID.
func (s *Store) ListCustomers(ctx context.Context) ([]engine.Customer, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, email, phone, location, join_date
		FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list customers: %w", err)
	}
	defer rows.Close()

	customers := []engine.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// UpdateCustomer rewrites the mutable fields of an existing customer. The ID
// is never changed. Returns engine.ErrNotFound for an unknown customer and
// ErrDuplicateEmail when the new email belongs to someone else.
func (s *Store) UpdateCustomer(ctx context.Context, c *engine.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		var taken int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM customers WHERE email = ? AND id != ?`,
			c.Email, c.ID).Scan(&taken)
		if err != nil {
			return fmt.Errorf("store: check email: %w", err)
		}
		if taken > 0 {
			return ErrDuplicateEmail
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE customers SET name = ?, email = ?, phone = ?, location = ?
			WHERE id = ?`,
			c.Name, c.Email, strings.TrimSpace(c.Phone), strings.TrimSpace(c.Location), c.ID)
		if err != nil {
			return fmt.Errorf("store: update customer: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("customer %d: %w", c.ID, engine.ErrNotFound)
		}
		return nil
	})
}

// DeleteCustomer removes a customer and, via the foreign key cascade, all of
// their purchases. Returns engine.ErrNotFound for an unknown ID.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := dbopen.Exec(ctx, s.DB, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("customer %d: %w", id, engine.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*engine.Customer, error) {
	var c engine.Customer
	var joinDate string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Location, &joinDate); err != nil {
		return nil, err
	}
	// A join date that fails to parse is left zero rather than rejecting
	// the whole row.
	if t, err := time.Parse(joinDateLayout, joinDate); err == nil {
		c.JoinDate = t
	}
	return &c, nil
}
