package analyzer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Average is one element of a moving-average series. Defined is false until
// the window has filled.
type Average struct {
	Value   decimal.Decimal
	Defined bool
}

// MovingAverage computes the simple moving average of closes over window.
// Element i is mean(closes[i-window+1..i]) for i >= window-1 and undefined
// before that.
//
// The sum is maintained incrementally in exact decimal arithmetic, so a
// window that slides past a large value leaves no rounding residue behind.
func MovingAverage(closes []decimal.Decimal, window int) ([]Average, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}

	out := make([]Average, len(closes))
	w := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	for i, c := range closes {
		sum = sum.Add(c)
		if i >= window {
			sum = sum.Sub(closes[i-window])
		}
		if i >= window-1 {
			out[i] = Average{Value: sum.Div(w), Defined: true}
		}
	}
	return out, nil
}
