package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// requireDecimal parses a mandatory decimal field, recording a field error
// when blank or malformed.
func requireDecimal(raw, field string, errs fieldErrors) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		errs.add(field, "a decimal value is required")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		errs.add(field, "invalid decimal value")
		return decimal.Zero
	}
	return d
}

// optionalDecimal parses a decimal field that defaults to zero when blank.
func optionalDecimal(raw, field string, errs fieldErrors) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		errs.add(field, "invalid decimal value")
		return decimal.Zero
	}
	return d
}

// optionalNullDecimal parses a nullable decimal field.
func optionalNullDecimal(raw, field string, errs fieldErrors) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		errs.add(field, "invalid decimal value")
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
