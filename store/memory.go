// Package store provides in-memory storage for the bookstore inventory and sales ledger.
package store

import (
	"bookstore/domain"
	"bookstore/util"
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// InMemoryStore is a thread-safe in-memory domain.ProductStore keyed by title
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[string]domain.Product),
	}
}

// compile-time assertion that InMemoryStore implements domain.ProductStore
var _ domain.ProductStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) Create(ctx context.Context, product domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateProduct(product); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.Title]; exists {
		return domain.NewDuplicateTitleError(product.Title)
	}
	s.products[product.Title] = product
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, title string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[title]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(title)
	}
	return p, nil
}

func (s *InMemoryStore) UpdatePrice(ctx context.Context, title string, price decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[title]
	if !ok {
		return domain.NewProductNotFoundError(title)
	}
	if !util.IsPositiveNumber(price) {
		return domain.NewInvalidFieldError("price", "must be greater than zero", price)
	}
	p.Price = price
	s.products[title] = p
	return nil
}

func (s *InMemoryStore) UpdateQuantity(ctx context.Context, title string, quantity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[title]
	if !ok {
		return domain.NewProductNotFoundError(title)
	}
	// Stock only reaches zero through a sale.
	if !util.IsPositiveInteger(quantity) {
		return domain.NewInvalidFieldError("quantity", "must be greater than zero", quantity)
	}
	p.Quantity = quantity
	s.products[title] = p
	return nil
}

func (s *InMemoryStore) Withdraw(ctx context.Context, title string, qty int, check func(domain.Product) error) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[title]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(title)
	}
	if !util.IsPositiveInteger(qty) {
		return domain.Product{}, domain.NewInvalidFieldError("quantity", "must be greater than zero", qty)
	}
	if qty > p.Quantity {
		return domain.Product{}, domain.NewInsufficientStockError(title, qty, p.Quantity)
	}
	if check != nil {
		if err := check(p); err != nil {
			return domain.Product{}, err
		}
	}

	before := p
	p.Quantity -= qty
	s.products[title] = p
	return before, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[title]; !ok {
		return domain.NewProductNotFoundError(title)
	}
	delete(s.products, title)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	// map order is random; sorting by title first keeps equal keys deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })

	var less func(a, b domain.Product) bool
	switch filter.SortBy {
	case "title":
		less = func(a, b domain.Product) bool { return a.Title < b.Title }
	case "author":
		less = func(a, b domain.Product) bool { return a.Author < b.Author }
	case "price":
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case "quantity":
		less = func(a, b domain.Product) bool { return a.Quantity < b.Quantity }
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool {
			if filter.Order == "desc" {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}

	return out, nil
}

// Seed loads trusted catalog entries without field validation.
// Duplicate titles, within the batch or against the store, are rejected and nothing is loaded.
func (s *InMemoryStore) Seed(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, exists := s.products[p.Title]; exists {
			return domain.NewDuplicateTitleError(p.Title)
		}
		if _, dup := seen[p.Title]; dup {
			return domain.NewDuplicateTitleError(p.Title)
		}
		seen[p.Title] = struct{}{}
	}
	for _, p := range products {
		s.products[p.Title] = p
	}
	return nil
}
