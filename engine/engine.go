package engine

import (
	"context"
	"math/rand"
	"time"
)

// Store is the read-only slice of the record store the engine consumes.
// The engine never calls a mutating method; each invocation operates only on
// the snapshot these reads return.
type Store interface {
	// GetCustomer returns the customer or ErrNotFound.
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	// ListPurchasesByCustomer returns all purchases owned by the customer.
	ListPurchasesByCustomer(ctx context.Context, customerID int64) ([]Purchase, error)
}

// Window is the store's operating hours, Open through Close inclusive.
type Window struct {
	Open  int
	Close int
}

// Slots returns the number of hour slots in the window.
func (w Window) Slots() int { return w.Close - w.Open + 1 }

// Contains reports whether hour falls inside the window.
func (w Window) Contains(hour int) bool { return hour >= w.Open && hour <= w.Close }

// DefaultWindow is a 13-slot retail day, 9 AM through 9 PM.
var DefaultWindow = Window{Open: 9, Close: 21}

// Engine scores predictions and aggregates peak-time patterns.
type Engine struct {
	store  Store
	now    func() time.Time
	rng    *rand.Rand
	window Window
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow injects the clock used for recency and today-revenue computations.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand injects the random source used for cold-start base probabilities.
// Tests pass a fixed-seed source to make cold-start output reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithWindow sets the operating window for peak-time bucketing.
func WithWindow(w Window) Option {
	return func(e *Engine) { e.window = w }
}

// New creates an Engine reading from store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		window: DefaultWindow,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Window returns the engine's operating window.
func (e *Engine) Window() Window { return e.window }
