package domain

import (
	"errors"
	"reflect"
	"strings"

	"bookstore/util"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("booktext", func(fl validator.FieldLevel) bool {
		return util.IsValidText(fl.Field().String())
	})
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && util.IsPositiveNumber(d)
	})
	return v
}

var reasons = map[string]string{
	"booktext": "must contain only letters and spaces",
	"positive": "must be greater than zero",
	"gt":       "must be greater than zero",
}

// ValidateProduct checks every field of p and reports the first failure as an InvalidFieldError.
func ValidateProduct(p Product) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewUnexpectedError("validating product", err)
	}
	fe := verrs[0]
	reason, ok := reasons[fe.Tag()]
	if !ok {
		reason = "failed " + fe.Tag()
	}
	return NewInvalidFieldError(fe.Field(), reason, fe.Value())
}
