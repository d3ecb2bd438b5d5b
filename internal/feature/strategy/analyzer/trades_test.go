package analyzer

import (
	"math/rand"
	"testing"

	"stock_analyzer/internal/feature/strategy/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTrades_Scenario(t *testing.T) {
	s := Series(makeBars("X", scenarioCloses...))
	trades := ExtractTrades(s, []int{0, 0, 1, -1, 1, 0, -1})

	require.Len(t, trades, 4)
	want := []struct {
		idx    int
		price  int64
		action entity.Action
	}{
		{2, 11, entity.ActionBuy},
		{3, 9, entity.ActionSell},
		{4, 14, entity.ActionBuy},
		{6, 13, entity.ActionSell},
	}
	for i, w := range want {
		assert.Equal(t, w.action, trades[i].Action, "trade %d", i)
		assert.True(t, decimal.NewFromInt(w.price).Equal(trades[i].Price), "trade %d price %s", i, trades[i].Price)
		assert.Equal(t, s[w.idx].Time, trades[i].Time, "trade %d", i)
	}
}

func TestExtractTrades_SellBeforeBuyOnSharedTimestamp(t *testing.T) {
	s := Series(makeBars("X", 10, 11, 12))
	// malformed input: two bars share a timestamp
	s[2].Time = s[1].Time

	trades := ExtractTrades(s, []int{0, 1, -1})
	require.Len(t, trades, 2)
	assert.Equal(t, entity.ActionSell, trades[0].Action)
	assert.Equal(t, entity.ActionBuy, trades[1].Action)
}

func TestExtractTrades_NoEvents(t *testing.T) {
	s := Series(makeBars("X", 10, 11, 12))
	assert.Empty(t, ExtractTrades(s, []int{0, 0, 0}))
}

// TestExtractTrades_Properties checks on random signal series that the trade
// count equals the number of sign changes and that buys and sells differ by
// at most one.
func TestExtractTrades_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := rng.Intn(60) + 1
		closes := make([]int64, n)
		signals := make([]int, n)
		for i := range closes {
			closes[i] = int64(rng.Intn(100) + 1)
			signals[i] = rng.Intn(2)
		}
		signals[0] = 0

		changes := 0
		for i := 1; i < n; i++ {
			if signals[i] != signals[i-1] {
				changes++
			}
		}

		trades := ExtractTrades(Series(makeBars("X", closes...)), PositionChanges(signals))
		assert.Len(t, trades, changes)

		buys, sells := 0, 0
		for i, tr := range trades {
			if tr.Action == entity.ActionBuy {
				buys++
			} else {
				sells++
			}
			if i > 0 {
				assert.False(t, tr.Time.Before(trades[i-1].Time), "trades must be chronological")
			}
		}
		assert.LessOrEqual(t, buys-sells, 1)
		assert.GreaterOrEqual(t, buys-sells, -1)
	}
}
