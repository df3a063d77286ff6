package store

import (
	"bookstore/domain"
	"context"
	"sync"
)

// InMemoryLedger is an append-only, thread-safe domain.SaleLedger
type InMemoryLedger struct {
	mu    sync.RWMutex
	sales []domain.Sale
}

// NewInMemoryLedger constructs an empty InMemoryLedger
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{}
}

var _ domain.SaleLedger = (*InMemoryLedger)(nil)

func (l *InMemoryLedger) Append(ctx context.Context, sale domain.Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sales = append(l.sales, sale)
	return nil
}

// List returns a copy of all sales in the order they were appended.
func (l *InMemoryLedger) List(ctx context.Context) ([]domain.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Sale, len(l.sales))
	copy(out, l.sales)
	return out, nil
}
