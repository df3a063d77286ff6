// Package domain defines error types for the bookstore.
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies catalog failures so callers can branch without parsing messages.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidField
	KindDuplicateTitle
	KindNotFound
	KindInsufficientStock
	KindInvalidDiscount
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidField:
		return "invalid_field"
	case KindDuplicateTitle:
		return "duplicate_title"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindInvalidDiscount:
		return "invalid_discount"
	case KindUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// KindOf returns the kind of the first typed error in err's chain.
// Errors that carry no kind are reported as KindUnexpected.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnexpected
}

// ProductNotFoundError is returned when no product has the given title
type ProductNotFoundError struct {
	Title string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: title=%s", e.Title)
}

func (e *ProductNotFoundError) Kind() ErrorKind { return KindNotFound }

// Is allows proper error type checking with errors.Is()
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

// InvalidFieldError is returned when a product or sale field fails validation
type InvalidFieldError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

func (e *InvalidFieldError) Kind() ErrorKind { return KindInvalidField }

// Is allows proper error type checking with errors.Is()
func (e *InvalidFieldError) Is(target error) bool {
	_, ok := target.(*InvalidFieldError)
	return ok
}

// DuplicateTitleError is returned when adding a product whose title is already stocked
type DuplicateTitleError struct {
	Title string
}

func (e *DuplicateTitleError) Error() string {
	return fmt.Sprintf("duplicate product: title=%s already exists", e.Title)
}

func (e *DuplicateTitleError) Kind() ErrorKind { return KindDuplicateTitle }

// Is allows proper error type checking with errors.Is()
func (e *DuplicateTitleError) Is(target error) bool {
	_, ok := target.(*DuplicateTitleError)
	return ok
}

// InsufficientStockError is returned when a sale asks for more units than are in stock
type InsufficientStockError struct {
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: title=%s, requested=%d, available=%d", e.Title, e.Requested, e.Available)
}

func (e *InsufficientStockError) Kind() ErrorKind { return KindInsufficientStock }

// Is allows proper error type checking with errors.Is()
func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

// InvalidDiscountError is returned when a discount is negative or not below the gross amount
type InvalidDiscountError struct {
	Discount decimal.Decimal
	Gross    decimal.Decimal
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("invalid discount: discount=%s, gross=%s", e.Discount, e.Gross)
}

func (e *InvalidDiscountError) Kind() ErrorKind { return KindInvalidDiscount }

// Is allows proper error type checking with errors.Is()
func (e *InvalidDiscountError) Is(target error) bool {
	_, ok := target.(*InvalidDiscountError)
	return ok
}

// UnexpectedError wraps a runtime failure caught at an operation boundary
type UnexpectedError struct {
	Op    string
	Cause error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error while %s: %v", e.Op, e.Cause)
}

func (e *UnexpectedError) Kind() ErrorKind { return KindUnexpected }

func (e *UnexpectedError) Unwrap() error { return e.Cause }

// Helper functions for creating errors with context

// NewProductNotFoundError creates a new ProductNotFoundError
func NewProductNotFoundError(title string) error {
	return &ProductNotFoundError{Title: title}
}

// NewInvalidFieldError creates a new InvalidFieldError
func NewInvalidFieldError(field, reason string, value interface{}) error {
	return &InvalidFieldError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewDuplicateTitleError creates a new DuplicateTitleError
func NewDuplicateTitleError(title string) error {
	return &DuplicateTitleError{Title: title}
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(title string, requested, available int) error {
	return &InsufficientStockError{Title: title, Requested: requested, Available: available}
}

// NewInvalidDiscountError creates a new InvalidDiscountError
func NewInvalidDiscountError(discount, gross decimal.Decimal) error {
	return &InvalidDiscountError{Discount: discount, Gross: gross}
}

// NewUnexpectedError creates a new UnexpectedError
func NewUnexpectedError(op string, cause error) error {
	return &UnexpectedError{Op: op, Cause: cause}
}

// Type assertion helpers for use with errors.As()

// IsProductNotFoundError checks if an error is a ProductNotFoundError
func IsProductNotFoundError(err error) bool {
	var pnf *ProductNotFoundError
	return errors.As(err, &pnf)
}

// IsInvalidFieldError checks if an error is an InvalidFieldError
func IsInvalidFieldError(err error) bool {
	var ife *InvalidFieldError
	return errors.As(err, &ife)
}

// IsDuplicateTitleError checks if an error is a DuplicateTitleError
func IsDuplicateTitleError(err error) bool {
	var dte *DuplicateTitleError
	return errors.As(err, &dte)
}

// IsInsufficientStockError checks if an error is an InsufficientStockError
func IsInsufficientStockError(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// IsInvalidDiscountError checks if an error is an InvalidDiscountError
func IsInvalidDiscountError(err error) bool {
	var ide *InvalidDiscountError
	return errors.As(err, &ide)
}

// IsUnexpectedError checks if an error is an UnexpectedError
func IsUnexpectedError(err error) bool {
	var ue *UnexpectedError
	return errors.As(err, &ue)
}
