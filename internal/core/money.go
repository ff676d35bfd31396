// Package core provides the domain model for the saldo ledger: money,
// transactions, accounts, recurring templates and their categories.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer cents. Amounts on transactions are
// non-negative magnitudes; direction comes from the transaction type.
type Money struct {
	Cents int64 `json:"cents"`
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) IsZero() bool { return m.Cents == 0 }

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other. The result may be negative; negative Money is
// valid for derived figures (deltas, running balances), just not for
// stored transaction amounts.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Neg returns -m.
func (m Money) Neg() Money { return Money{Cents: -m.Cents} }

// Decimal returns the amount in currency units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount as a plain decimal string ("12.34", "-0.05").
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

var centsFactor = decimal.NewFromInt(100)

// ParseMoney converts a decimal string to Money with half-up rounding on
// the third decimal place. Both dot and comma separators are accepted.
// Negative and zero amounts are rejected: direction belongs to the
// transaction type, never to the amount's sign.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(centsFactor).Round(0)
	if cents.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	if cents.Cmp(decimal.NewFromInt(1<<62)) >= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// ParseSignedMoney is ParseMoney without the positivity rule, for derived
// figures where sign is meaningful: balance seeds, deltas, adjustments.
func ParseSignedMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(centsFactor).Round(0)
	if cents.Abs().Cmp(decimal.NewFromInt(1<<62)) >= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}
