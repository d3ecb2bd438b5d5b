package analyzer

import (
	"testing"

	"stock_analyzer/internal/feature/strategy/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturns_Scenario(t *testing.T) {
	closes := decimals(scenarioCloses...)
	signals := []int{0, 0, 1, 0, 1, 1, 0}

	raw, strategy, err := Returns(closes, signals)
	require.NoError(t, err)

	assert.False(t, raw[0].Defined)
	assert.False(t, strategy[0].Defined)

	wantRaw := []float64{0, 0.2, -1.0 / 12, -2.0 / 11, 5.0 / 9, 1.0 / 14, -2.0 / 15}
	wantStrategy := []float64{0, 0, 0, -2.0 / 11, 0, 1.0 / 14, -2.0 / 15}
	for i := 1; i < len(closes); i++ {
		assert.True(t, raw[i].Defined)
		assert.True(t, strategy[i].Defined)
		assert.InDelta(t, wantRaw[i], raw[i].Value, 1e-12, "raw[%d]", i)
		assert.InDelta(t, wantStrategy[i], strategy[i].Value, 1e-12, "strategy[%d]", i)
	}
}

func TestReturns_OneBarLag(t *testing.T) {
	// a signal raised on the last bar earns nothing yet
	raw, strategy, err := Returns(decimals(10, 20), []int{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, raw[1].Value, 1e-12)
	assert.Equal(t, 0.0, strategy[1].Value)
}

func TestReturns_Errors(t *testing.T) {
	t.Run("zero close", func(t *testing.T) {
		_, _, err := Returns([]decimal.Decimal{decimal.Zero, decimal.NewFromInt(1)}, []int{0, 0})
		assert.ErrorIs(t, err, domain.ErrMalformedBar)
	})
	t.Run("length mismatch", func(t *testing.T) {
		_, _, err := Returns(decimals(1, 2, 3), []int{0, 0})
		assert.ErrorIs(t, err, domain.ErrComputation)
	})
}
