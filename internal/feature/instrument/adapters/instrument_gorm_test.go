package adapters

import (
	"context"
	"testing"
	"time"

	mdadapters "stock_analyzer/internal/feature/marketdata/adapters"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.AutoMigrate(&mdadapters.PriceBarModel{}), "failed to migrate table")
	return db
}

func seed(t *testing.T, db *gorm.DB, instrument string, tm time.Time) {
	t.Helper()

	p := decimal.NewFromInt(100)
	m := mdadapters.PriceBarModel{Instrument: instrument, Datetime: tm, Open: p, High: p, Low: p, Close: p, Volume: 1}
	require.NoError(t, db.Create(&m).Error)
}

func TestInstrumentGorm_ListSummaries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInstrumentRepository(db)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		got, err := repo.ListSummaries(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	seed(t, db, "TATASTEEL", d(5))
	seed(t, db, "HINDALCO", d(3))
	seed(t, db, "HINDALCO", d(1))
	seed(t, db, "HINDALCO", d(2))

	t.Run("grouped and ordered", func(t *testing.T) {
		got, err := repo.ListSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "HINDALCO", got[0].Code)
		assert.Equal(t, int64(3), got[0].Bars)
		assert.True(t, d(1).Equal(got[0].First), "first = %s", got[0].First)
		assert.True(t, d(3).Equal(got[0].Last), "last = %s", got[0].Last)

		assert.Equal(t, "TATASTEEL", got[1].Code)
		assert.Equal(t, int64(1), got[1].Bars)
		assert.True(t, got[1].First.Equal(got[1].Last))
	})
}
