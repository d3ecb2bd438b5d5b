package analyzer

import (
	"slices"
	"sort"

	mdentity "stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/strategy/domain"

	"github.com/shopspring/decimal"
)

// Series is one instrument's bars in chronological order. It is built by
// Partition and never modified afterwards.
type Series []mdentity.PriceBar

// Closes returns the closing prices of the series.
func (s Series) Closes() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Partition groups bars by instrument and stable-sorts each group by
// timestamp, so bars sharing a timestamp keep their input order.
func Partition(bars []mdentity.PriceBar) (map[string]Series, error) {
	if len(bars) == 0 {
		return nil, domain.ErrEmptyInput
	}
	groups := make(map[string]Series)
	for _, b := range bars {
		groups[b.Instrument] = append(groups[b.Instrument], b)
	}
	for _, s := range groups {
		slices.SortStableFunc(s, func(a, b mdentity.PriceBar) int {
			return a.Time.Compare(b.Time)
		})
	}
	return groups, nil
}

// Instruments returns the partition keys in ascending order.
func Instruments(groups map[string]Series) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
