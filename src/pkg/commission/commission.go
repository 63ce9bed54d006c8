// Package commission splits a settled price between the platform and the driver.
//
// Prices are integer minor units (1 DA = 100) and rates are parts per million so
// that every split is exact: Commission + DriverAmount always equals the price.
package commission

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinorUnitsPerUnit is the number of minor units in one currency unit.
	MinorUnitsPerUnit = 100
	// MaxUnits caps accepted prices so that seat multiples stay far from int64 overflow.
	MaxUnits = 1_000_000_000
	ppmScale = 1_000_000
)

// ErrInvalidArgument is returned for negative prices and rates outside [0, 1).
var ErrInvalidArgument = errors.New("commission: invalid argument")

// Amount is a monetary value in minor units.
type Amount int64

// AmountFromFloat converts a decimal currency value, rounding half-up to 2 decimals.
func AmountFromFloat(v float64) (Amount, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: price is not a number", ErrInvalidArgument)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative price %v", ErrInvalidArgument, v)
	}
	if v > MaxUnits {
		return 0, fmt.Errorf("%w: price %v above %d", ErrInvalidArgument, v, MaxUnits)
	}
	return Amount(math.Floor(v*MinorUnitsPerUnit + 0.5)), nil
}

// Float64 returns the amount in currency units.
func (a Amount) Float64() float64 {
	return float64(a) / MinorUnitsPerUnit
}

func (a Amount) String() string {
	return fmt.Sprintf("%d.%02d", int64(a)/MinorUnitsPerUnit, int64(a)%MinorUnitsPerUnit)
}

// Rate is a commission fraction in parts per million (160000 == 16%).
type Rate int64

// ParseRate validates a fractional rate such as 0.16.
func ParseRate(r float64) (Rate, error) {
	if math.IsNaN(r) || r < 0 || r >= 1 {
		return 0, fmt.Errorf("%w: rate %v outside [0, 1)", ErrInvalidArgument, r)
	}
	return Rate(math.Round(r * ppmScale)), nil
}

// Float64 returns the rate as a fraction.
func (r Rate) Float64() float64 {
	return float64(r) / ppmScale
}

func (r Rate) valid() bool {
	return r >= 0 && r < ppmScale
}

// Breakdown is the result of a split.
type Breakdown struct {
	Total        Amount `json:"total"`
	Commission   Amount `json:"commission"`
	DriverAmount Amount `json:"driverAmount"`
	Rate         Rate   `json:"rate"`
}

// Split computes the platform commission and the driver payout for price.
// The commission is rounded half-up to the minor unit; the remainder goes to the driver.
func Split(price Amount, rate Rate) (Breakdown, error) {
	if price < 0 {
		return Breakdown{}, fmt.Errorf("%w: negative price %d", ErrInvalidArgument, price)
	}
	if !rate.valid() {
		return Breakdown{}, fmt.Errorf("%w: rate %d ppm outside [0, 1)", ErrInvalidArgument, rate)
	}

	commission := mulDivHalfUp(int64(price), int64(rate), ppmScale)
	return Breakdown{
		Total:        price,
		Commission:   Amount(commission),
		DriverAmount: price - Amount(commission),
		Rate:         rate,
	}, nil
}

// mulDivHalfUp returns round-half-up(a*b/d) for non-negative operands without
// overflowing for prices up to ~9e12 minor units.
func mulDivHalfUp(a, b, d int64) int64 {
	q, r := a/d, a%d
	whole := q * b
	frac := (r*b + d/2) / d
	return whole + frac
}
