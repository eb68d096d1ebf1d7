package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidAmount = errors.New("money: invalid decimal amount")
	ErrNegative      = errors.New("money: amount must not be negative")
)

// Money keeps amounts in integer cents to avoid floating point drift.
type Money struct {
	Cents int64
}

func FromCents(cents int64) Money {
	return Money{Cents: cents}
}

// Parse reads a decimal string such as "100.00" or "99.5" into cents.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	neg := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Money{}, ErrInvalidAmount
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Money{}, ErrInvalidAmount
		}
		cents = d
	default:
		return Money{}, ErrInvalidAmount
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return Money{Cents: total}, nil
}

// MustParse panics on a malformed amount; useful in tests and fixtures.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// MulNights multiplies the nightly amount by a night count. Exact: integer
// arithmetic only.
func (m Money) MulNights(nights int) Money {
	return Money{Cents: m.Cents * int64(nights)}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) Positive() bool {
	return m.Cents > 0
}

// String renders the amount with two decimal places, e.g. "300.00".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
