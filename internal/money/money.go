// Package money represents monetary amounts as integer cents so that sums
// are exact, and converts them to and from two-place decimals at the edges.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an amount.
const Scale = 2

var (
	// ErrTooManyDecimals is returned when an amount has sub-cent precision.
	ErrTooManyDecimals = errors.New("money: amount has more than 2 decimal places")
	// ErrOutOfRange is returned when an amount does not fit in int64 cents.
	ErrOutOfRange = errors.New("money: amount out of range")
)

var hundred = decimal.NewFromInt(100)

// Cents is an amount of money in minor units.
type Cents int64

// FromDecimal converts a decimal to cents, rejecting sub-cent precision.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	if !d.Round(Scale).Equal(d) {
		return 0, ErrTooManyDecimals
	}
	shifted := d.Shift(Scale)
	if !shifted.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return Cents(shifted.IntPart()), nil
}

// Parse parses a decimal string such as "120.5" into cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decimal returns the amount as a two-place decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -Scale)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(Scale)
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Percent returns part/whole*100 rounded to two places, or 0 when whole is 0.
func Percent(part, whole Cents) float64 {
	if whole == 0 {
		return 0
	}
	p, _ := decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(whole))).
		Round(Scale).
		Float64()
	return p
}

// PerDay divides total evenly across days, rounding half away from zero to
// the nearest cent. days below 1 are treated as 1.
func PerDay(total Cents, days int) Cents {
	if days < 1 {
		days = 1
	}
	return Cents(decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(days))).
		Round(0).
		IntPart())
}
