// Package fee derives the money-affecting figures of a guarantee. Pure and
// deterministic: no I/O, no clock, same inputs always give the same cents.
package fee

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid financial input")

// InvalidInputError names the offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid financial input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

var hundred = decimal.NewFromInt(100)

// Quote is the output frozen onto the aggregate by the Approve transition.
type Quote struct {
	TotalLeaseValue decimal.Decimal
	GuaranteeFee    decimal.Decimal
}

// Compute returns total_lease_value = round2(rent × term) and
// guarantee_fee = round2(total × rate / 100). Rounding is half-up to two
// decimal places, applied once per figure; the fee is derived from the
// already-rounded total so the two never disagree.
func Compute(monthlyRent decimal.Decimal, leaseTermMonths int, appliedRate decimal.Decimal) (Quote, error) {
	if monthlyRent.LessThanOrEqual(decimal.Zero) {
		return Quote{}, &InvalidInputError{Field: "monthly_rent", Reason: "must be positive"}
	}
	if leaseTermMonths <= 0 {
		return Quote{}, &InvalidInputError{Field: "lease_term_months", Reason: "must be positive"}
	}
	if appliedRate.LessThanOrEqual(decimal.Zero) || appliedRate.GreaterThan(hundred) {
		return Quote{}, &InvalidInputError{Field: "applied_rate", Reason: "must be in (0, 100]"}
	}

	total := monthlyRent.Mul(decimal.NewFromInt(int64(leaseTermMonths))).Round(2)
	feeAmount := total.Mul(appliedRate).Div(hundred).Round(2)

	return Quote{TotalLeaseValue: total, GuaranteeFee: feeAmount}, nil
}

// TotalLeaseValue exposes the first half of Compute for display callers that
// only need the lease total before any rate exists.
func TotalLeaseValue(monthlyRent decimal.Decimal, leaseTermMonths int) (decimal.Decimal, error) {
	if monthlyRent.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &InvalidInputError{Field: "monthly_rent", Reason: "must be positive"}
	}
	if leaseTermMonths <= 0 {
		return decimal.Zero, &InvalidInputError{Field: "lease_term_months", Reason: "must be positive"}
	}
	return monthlyRent.Mul(decimal.NewFromInt(int64(leaseTermMonths))).Round(2), nil
}
