// Package util provides validation and input coercion helpers for the bookstore.
package util

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotNumber is returned when the input cannot be read as a number.
	ErrNotNumber = errors.New("not a valid number")
	// ErrNotInteger is returned when the input is not a whole number.
	ErrNotInteger = errors.New("not a valid integer")
	// ErrNotPositive is returned when a parsed value is zero or negative.
	ErrNotPositive = errors.New("must be greater than zero")
	// ErrNegative is returned when a parsed value is below zero.
	ErrNegative = errors.New("must not be negative")
)

// IsValidText reports whether s is non-empty and made only of letters and spaces.
// Any Unicode letter counts, so "Márquez" is valid.
func IsValidText(s string) bool {
	compact := strings.ReplaceAll(s, " ", "")
	if compact == "" {
		return false
	}
	for _, r := range compact {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsPositiveNumber reports whether d is strictly greater than zero.
func IsPositiveNumber(d decimal.Decimal) bool {
	return d.IsPositive()
}

// IsPositiveInteger reports whether n is strictly greater than zero.
func IsPositiveInteger(n int) bool {
	return n > 0
}

// ParsePositiveNumber reads a decimal such as "12.50" and requires it to be positive.
func ParsePositiveNumber(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrNotNumber
	}
	if !IsPositiveNumber(d) {
		return decimal.Zero, ErrNotPositive
	}
	return d, nil
}

// ParsePositiveInteger reads a whole number. "2.5" is rejected even though it is positive.
func ParsePositiveInteger(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrNotInteger
	}
	if !IsPositiveInteger(n) {
		return 0, ErrNotPositive
	}
	return n, nil
}

// ParseDiscount reads an optional discount amount. Blank input means no discount.
func ParseDiscount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotNumber
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	return d, nil
}
