package analyzer

import (
	"time"

	mdentity "stock_analyzer/internal/feature/marketdata/domain/entity"

	"github.com/shopspring/decimal"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// scenarioCloses is the reference series used across the package tests
// (short window 2, long window 3).
var scenarioCloses = []int64{10, 12, 11, 9, 14, 15, 13}

func makeBars(instrument string, closes ...int64) []mdentity.PriceBar {
	out := make([]mdentity.PriceBar, len(closes))
	for i, c := range closes {
		d := decimal.NewFromInt(c)
		out[i] = mdentity.PriceBar{
			Instrument: instrument,
			Time:       baseTime.AddDate(0, 0, i),
			Open:       d,
			High:       d,
			Low:        d,
			Close:      d,
			Volume:     100,
		}
	}
	return out
}

func decimals(vals ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func defined(vals ...float64) []Return {
	out := make([]Return, len(vals))
	for i, v := range vals {
		out[i] = Return{Value: v, Defined: true}
	}
	return out
}
