package analyzer

import (
	"fmt"

	"stock_analyzer/internal/feature/strategy/domain"

	"github.com/shopspring/decimal"
)

// Return is one element of a per-bar return series. The first bar of a series
// has no predecessor and is undefined.
type Return struct {
	Value   float64
	Defined bool
}

// Returns computes the raw bar-over-bar return and the strategy return. The
// strategy holds the position set by the previous bar's signal, so
// strategy[i] = raw[i] * signals[i-1].
func Returns(closes []decimal.Decimal, signals []int) (raw, strategy []Return, err error) {
	if len(signals) != len(closes) {
		return nil, nil, fmt.Errorf("%w: %d closes but %d signals", domain.ErrComputation, len(closes), len(signals))
	}
	raw = make([]Return, len(closes))
	strategy = make([]Return, len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev.IsZero() {
			return nil, nil, fmt.Errorf("%w: zero close at index %d", domain.ErrMalformedBar, i-1)
		}
		r := closes[i].Sub(prev).Div(prev).InexactFloat64()
		raw[i] = Return{Value: r, Defined: true}
		strategy[i] = Return{Value: r * float64(signals[i-1]), Defined: true}
	}
	return raw, strategy, nil
}
