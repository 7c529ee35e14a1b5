package parser

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	errNumberOutOfRange = errors.New("number out of range")
	maxWindowValue      = decimal.NewFromInt(math.MaxInt64)
)

// roundHalfUp converts a numeric literal to the nearest integer, rounding
// halves away from zero: 2.5 -> 3, 2.4 -> 2. Literals are never negative
// here, so away from zero is up.
func roundHalfUp(literal string) (int64, error) {
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return 0, err
	}
	r := d.Round(0)
	if r.IsNegative() || r.GreaterThan(maxWindowValue) {
		return 0, errNumberOutOfRange
	}
	return r.IntPart(), nil
}
