package cli

import (
	"errors"
	"fmt"
	"io"

	"bookstore/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.Und)

// presentedError carries a user-facing message while keeping the domain error in the chain.
type presentedError struct {
	msg string
	err error
}

func (e *presentedError) Error() string { return e.msg }

func (e *presentedError) Unwrap() error { return e.err }

func present(err error) error {
	if err == nil {
		return nil
	}
	return &presentedError{msg: failureMessage(err), err: err}
}

// failureMessage renders a catalog error for the terminal.
func failureMessage(err error) string {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return "Product not found."
	case domain.KindDuplicateTitle:
		return "Product already exists."
	case domain.KindInvalidField:
		var ife *domain.InvalidFieldError
		errors.As(err, &ife)
		switch ife.Field {
		case "price":
			return "Price must be a positive number."
		case "quantity":
			return "Quantity must be a positive integer."
		default:
			return fmt.Sprintf("%s must contain only letters and spaces.", titleCase.String(ife.Field))
		}
	case domain.KindInsufficientStock:
		var ise *domain.InsufficientStockError
		errors.As(err, &ise)
		return fmt.Sprintf("Insufficient stock: requested %d, available %d.", ise.Requested, ise.Available)
	case domain.KindInvalidDiscount:
		var ide *domain.InvalidDiscountError
		errors.As(err, &ide)
		return fmt.Sprintf("Discount must be >= 0 and less than gross amount (%s).", money(ide.Gross))
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func printProduct(w io.Writer, p domain.Product) {
	fmt.Fprintf(w, "Title: %s\n", p.Title)
	fmt.Fprintf(w, "Author: %s\n", p.Author)
	fmt.Fprintf(w, "Category: %s\n", p.Category)
	fmt.Fprintf(w, "Price: %s\n", money(p.Price))
	fmt.Fprintf(w, "Quantity: %d\n", p.Quantity)
}

func printInventory(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "Inventory is empty.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(w, "%s | %s | %s | %s | %d\n",
			p.Title, p.Author, p.Category, money(p.Price), p.Quantity)
	}
}

func printSales(w io.Writer, sales []domain.Sale) {
	if len(sales) == 0 {
		fmt.Fprintln(w, "No sales registered yet.")
		return
	}
	for _, s := range sales {
		fmt.Fprintf(w, "%s - %s bought %d of %s (Gross: %s, Discount: %s, Net: %s)\n",
			s.Date.Format("2006-01-02"), s.Client, s.Quantity, s.ProductTitle,
			money(s.Gross), money(s.Discount), money(s.Net))
	}
}

type report struct {
	N        int                   `json:"n"`
	Top      []domain.ProductSales `json:"top"`
	ByAuthor []domain.AuthorIncome `json:"by_author"`
	Gross    decimal.Decimal       `json:"gross"`
	Net      decimal.Decimal       `json:"net"`
}

func printReport(w io.Writer, r report) {
	fmt.Fprintf(w, "\nTop %d best-selling products:\n", r.N)
	if len(r.Top) == 0 {
		fmt.Fprintln(w, "No sales yet.")
	}
	for i, row := range r.Top {
		fmt.Fprintf(w, "%d. %s - Sold: %d\n", i+1, row.Title, row.Quantity)
	}

	fmt.Fprintln(w, "\nSales grouped by author (net):")
	if len(r.ByAuthor) == 0 {
		fmt.Fprintln(w, "No sales yet.")
	}
	for _, row := range r.ByAuthor {
		fmt.Fprintf(w, "%s - Net income: %s\n", row.Author, money(row.Net))
	}

	fmt.Fprintf(w, "\nTotal gross income: %s\n", money(r.Gross))
	fmt.Fprintf(w, "Total net income:   %s\n", money(r.Net))
}
