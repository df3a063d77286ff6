// Package domain defines core business types and interfaces.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Title is the primary key.
type Product struct {
	Title    string          `json:"title"    validate:"booktext"`
	Author   string          `json:"author"   validate:"booktext"`
	Category string          `json:"category" validate:"booktext"`
	Price    decimal.Decimal `json:"price"    validate:"positive"`
	Quantity int             `json:"quantity" validate:"gt=0"`
}

// Value returns price times quantity.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Sale is an immutable record of a completed transaction.
// Title, author and price are copied from the product when the sale is made.
type Sale struct {
	ID           uuid.UUID       `json:"id"`
	Client       string          `json:"client"`
	ProductTitle string          `json:"product_title"`
	Author       string          `json:"author"`
	Quantity     int             `json:"quantity"`
	Date         time.Time       `json:"date"`
	Price        decimal.Decimal `json:"price"`
	Gross        decimal.Decimal `json:"gross"`
	Discount     decimal.Decimal `json:"discount"`
	Net          decimal.Decimal `json:"net"`
}

// ProductSales is one row of the best-sellers report
type ProductSales struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// AuthorIncome is one row of the sales-by-author report
type AuthorIncome struct {
	Author string          `json:"author"`
	Net    decimal.Decimal `json:"net"`
}

// ListFilter allows filtering and sorting results from List
type ListFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string // "title", "author", "price", "quantity"
	Order    string // "asc" or "desc"
}

// ProductStore defines the storage interface for the inventory
type ProductStore interface {
	Create(ctx context.Context, product Product) error
	Get(ctx context.Context, title string) (Product, error)
	UpdatePrice(ctx context.Context, title string, price decimal.Decimal) error
	UpdateQuantity(ctx context.Context, title string, quantity int) error
	// Withdraw runs check against the current product and, if it passes and
	// stock covers qty, decrements the stock. It returns the product as it was
	// before the decrement.
	Withdraw(ctx context.Context, title string, qty int, check func(Product) error) (Product, error)
	Delete(ctx context.Context, title string) error
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Seed(ctx context.Context, products []Product) error
}

// SaleLedger defines the append-only storage for sales
type SaleLedger interface {
	Append(ctx context.Context, sale Sale) error
	List(ctx context.Context) ([]Sale, error)
}
