// Package store is the SQLite-backed record store for customers and
// purchases. The analytics engine reads from it through the engine.Store
// interface; all mutation happens here, never inside the engine.
package store

import (
	"database/sql"
	"errors"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
)

// ErrDuplicateEmail is returned when a customer with the same email
// (compared case-insensitively) already exists.
var ErrDuplicateEmail = errors.New("store: customer with this email already exists")

// joinDateLayout is the on-disk format for customer join dates.
const joinDateLayout = "2006-01-02"

// Store wraps the record database.
type Store struct {
	DB *sql.DB
}

// Compile-time check: Store satisfies the engine's read contract.
var _ engine.Store = (*Store)(nil)

// New creates a Store over an already-opened database. The schema must have
// been applied (dbopen.WithSchema(store.Schema) or ApplySchema).
func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// ApplySchema applies the record store DDL. Idempotent.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
