// Package catalog implements the bookstore's inventory and sales operations.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"bookstore/domain"
	"bookstore/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service owns the inventory store and the sales ledger. Every public method
// runs as a single critical section, so a failed call leaves both unchanged.
type Service struct {
	mu       sync.Mutex
	products domain.ProductStore
	sales    domain.SaleLedger
	now      func() time.Time
	newID    func() uuid.UUID
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to date sales.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service over the given store and ledger.
func NewService(products domain.ProductStore, sales domain.SaleLedger, opts ...Option) *Service {
	s := &Service{
		products: products,
		sales:    sales,
		now:      time.Now,
		newID:    uuid.New,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recoverOp turns a panic inside op into an UnexpectedError on *err.
func (s *Service) recoverOp(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	s.logger.Error("operation panicked", "op", op, "panic", r)
	*err = domain.NewUnexpectedError(op, cause)
}

// Seed loads trusted products, bypassing field validation.
func (s *Service) Seed(ctx context.Context, products []domain.Product) (err error) {
	defer s.recoverOp("seeding catalog", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products.Seed(ctx, products)
}

// AddProduct validates and stores a new product keyed by its trimmed title.
func (s *Service) AddProduct(ctx context.Context, title, author, category string, price decimal.Decimal, quantity int) (p domain.Product, err error) {
	defer s.recoverOp("adding product", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if !util.IsValidText(title) {
		return domain.Product{}, domain.NewInvalidFieldError("title", "must contain only letters and spaces", title)
	}
	if _, err := s.products.Get(ctx, title); err == nil {
		return domain.Product{}, domain.NewDuplicateTitleError(title)
	} else if !domain.IsProductNotFoundError(err) {
		return domain.Product{}, err
	}

	p = domain.Product{
		Title:    title,
		Author:   strings.TrimSpace(author),
		Category: strings.TrimSpace(category),
		Price:    price,
		Quantity: quantity,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// GetProduct looks up a product by trimmed title. The bool is false when it is absent.
func (s *Service) GetProduct(ctx context.Context, title string) (p domain.Product, found bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("operation panicked", "op", "getting product", "panic", r)
			p, found = domain.Product{}, false
		}
	}()
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.products.Get(ctx, strings.TrimSpace(title))
	if err != nil {
		return domain.Product{}, false
	}
	return p, true
}

// UpdatePrice overwrites the price of an existing product.
func (s *Service) UpdatePrice(ctx context.Context, title string, price decimal.Decimal) (err error) {
	defer s.recoverOp("updating price", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products.UpdatePrice(ctx, strings.TrimSpace(title), price)
}

// UpdateQuantity overwrites the stock of an existing product. Zero is
// rejected here; stock only reaches zero through a sale.
func (s *Service) UpdateQuantity(ctx context.Context, title string, quantity int) (err error) {
	defer s.recoverOp("updating quantity", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products.UpdateQuantity(ctx, strings.TrimSpace(title), quantity)
}

// DeleteProduct removes a product. Past sales keep their snapshot.
func (s *Service) DeleteProduct(ctx context.Context, title string) (err error) {
	defer s.recoverOp("deleting product", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products.Delete(ctx, strings.TrimSpace(title))
}

// ListInventory returns an independent copy of the inventory keyed by title.
func (s *Service) ListInventory(ctx context.Context) (inv map[string]domain.Product, err error) {
	defer s.recoverOp("listing inventory", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.products.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}
	inv = make(map[string]domain.Product, len(list))
	for _, p := range list {
		inv[p.Title] = p
	}
	return inv, nil
}

// FindProducts lists products matching filter in the requested order.
func (s *Service) FindProducts(ctx context.Context, filter domain.ListFilter) (out []domain.Product, err error) {
	defer s.recoverOp("finding products", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products.List(ctx, filter)
}

// AvailableProducts lists products with stock left, ordered by title.
func (s *Service) AvailableProducts(ctx context.Context) (out []domain.Product, err error) {
	defer s.recoverOp("listing available products", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.products.List(ctx, domain.ListFilter{SortBy: "title"})
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.Quantity > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// TotalInventoryValue sums price times quantity over inv.
func TotalInventoryValue(inv map[string]domain.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv {
		total = total.Add(p.Value())
	}
	return total
}
