package inflation

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInsufficientData signals that a change cannot be derived, either because
// fewer than two observations exist or the start price is zero.
var ErrInsufficientData = errors.New("insufficient data to compute inflation")

// divisionPrecision is the scale used for the intermediate quotient before the
// final half-to-even rounding to two decimals.
const divisionPrecision = 10

var hundred = decimal.NewFromInt(100)

// Change computes the percentage and absolute change from start to end. The
// percentage is rounded half-to-even to two decimals; a positive result means
// prices went up.
func Change(start, end decimal.Decimal) (percent, absolute decimal.Decimal, err error) {
	if start.IsZero() {
		return decimal.Zero, decimal.Zero, ErrInsufficientData
	}
	absolute = end.Sub(start)
	percent = absolute.
		DivRound(start, divisionPrecision).
		Mul(hundred).
		RoundBank(2)
	return percent, absolute, nil
}

// Average returns the mean of the given rates, rounded half-to-even to two
// decimals. It errors when no rates are supplied.
func Average(rates []decimal.Decimal) (decimal.Decimal, error) {
	if len(rates) == 0 {
		return decimal.Zero, ErrInsufficientData
	}
	sum := decimal.Zero
	for _, r := range rates {
		sum = sum.Add(r)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(rates))), divisionPrecision).RoundBank(2), nil
}
