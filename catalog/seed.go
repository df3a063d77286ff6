package catalog

import (
	"bookstore/domain"

	"github.com/shopspring/decimal"
)

// DefaultProducts is the catalog present when the application starts.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{Title: "Cien años de soledad", Author: "Gabriel García Márquez", Category: "Novel", Price: decimal.NewFromInt(45), Quantity: 10},
		{Title: "El Principito", Author: "Antoine de Saint-Exupéry", Category: "Children", Price: decimal.NewFromInt(30), Quantity: 8},
		{Title: "Fundamentos de Python", Author: "A. Programador", Category: "Programming", Price: decimal.NewFromInt(60), Quantity: 5},
		{Title: "La casa de los espíritus", Author: "Isabel Allende", Category: "Novel", Price: decimal.NewFromInt(50), Quantity: 6},
		{Title: "Historia mínima de Colombia", Author: "Varios", Category: "History", Price: decimal.NewFromInt(40), Quantity: 4},
	}
}
