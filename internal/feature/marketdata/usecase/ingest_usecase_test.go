package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock_analyzer/internal/feature/marketdata/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ErrMarketAPI = errors.New("market API error")

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	GetTimeSeriesFunc  func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.PriceBar, error)
	GetTimeSeriesCalls int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.PriceBar, error) {
	m.GetTimeSeriesCalls++
	if m.GetTimeSeriesFunc != nil {
		return m.GetTimeSeriesFunc(ctx, symbol, interval, outputsize)
	}
	return nil, errors.New("GetTimeSeriesFunc is not implemented")
}

// mockBarLoader is a mock implementation of the BarLoader interface.
type mockBarLoader struct {
	LoadFunc func(ctx context.Context, path string) ([]entity.PriceBar, error)
}

func (m *mockBarLoader) Load(ctx context.Context, path string) ([]entity.PriceBar, error) {
	return m.LoadFunc(ctx, path)
}

// mockBarRepository is a mock implementation of the BarRepository interface.
type mockBarRepository struct {
	FindFunc        func(ctx context.Context, instrument string) ([]entity.PriceBar, error)
	CreateFunc      func(ctx context.Context, bar entity.PriceBar) error
	UpsertBatchFunc func(ctx context.Context, bars []entity.PriceBar) error
	UpsertCalls     int
}

func (m *mockBarRepository) Find(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, instrument)
	}
	return nil, errors.New("FindFunc is not implemented")
}

func (m *mockBarRepository) Create(ctx context.Context, bar entity.PriceBar) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, bar)
	}
	return errors.New("CreateFunc is not implemented")
}

func (m *mockBarRepository) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	m.UpsertCalls++
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, bars)
	}
	return errors.New("UpsertBatchFunc is not implemented")
}

// mockRateLimiter is a mock implementation of the Limiter interface.
type mockRateLimiter struct {
	WaitCalls int
}

func (m *mockRateLimiter) Wait(ctx context.Context) error {
	m.WaitCalls++
	return ctx.Err()
}

func validBar(instrument string, tm time.Time, price int64) entity.PriceBar {
	p := decimal.NewFromInt(price)
	return entity.PriceBar{
		Instrument: instrument,
		Time:       tm,
		Open:       p,
		High:       p.Add(decimal.NewFromInt(5)),
		Low:        p.Sub(decimal.NewFromInt(5)),
		Close:      p,
		Volume:     100,
	}
}

func TestIngestUsecase_IngestAll(t *testing.T) {
	ctx := context.Background()
	testTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	market := &mockMarketRepository{
		GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.PriceBar, error) {
			assert.Equal(t, "1day", interval)
			if symbol == "FAIL" {
				return nil, ErrMarketAPI
			}
			b := validBar("", testTime, 100)
			return []entity.PriceBar{b}, nil
		},
	}
	var stored []entity.PriceBar
	repo := &mockBarRepository{
		UpsertBatchFunc: func(ctx context.Context, bars []entity.PriceBar) error {
			stored = append(stored, bars...)
			return nil
		},
	}
	rl := &mockRateLimiter{}

	uc := NewIngestUsecase(market, nil, repo, rl)
	err := uc.IngestAll(ctx, []string{"AAPL", "FAIL", "MSFT"})

	require.NoError(t, err, "a failing symbol must not abort the whole ingest")
	assert.Equal(t, 3, market.GetTimeSeriesCalls)
	assert.Equal(t, 3, rl.WaitCalls)
	require.Len(t, stored, 2)
	assert.Equal(t, "AAPL", stored[0].Instrument)
	assert.Equal(t, "MSFT", stored[1].Instrument)
}

func TestIngestUsecase_IngestAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	market := &mockMarketRepository{}
	uc := NewIngestUsecase(market, nil, &mockBarRepository{}, nil)

	err := uc.IngestAll(ctx, []string{"AAPL"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, market.GetTimeSeriesCalls)
}

func TestIngestUsecase_IngestFile(t *testing.T) {
	ctx := context.Background()
	testTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	invalid := validBar("HINDALCO", testTime.AddDate(0, 0, 1), 100)
	invalid.Close = decimal.Zero

	testCases := []struct {
		name        string
		loadFunc    func(ctx context.Context, path string) ([]entity.PriceBar, error)
		upsertErr   error
		wantStored  int
		expectedErr error
	}{
		{
			name: "success: invalid rows are skipped",
			loadFunc: func(ctx context.Context, path string) ([]entity.PriceBar, error) {
				return []entity.PriceBar{validBar("HINDALCO", testTime, 100), invalid}, nil
			},
			wantStored: 1,
		},
		{
			name: "error: loader fails",
			loadFunc: func(ctx context.Context, path string) ([]entity.PriceBar, error) {
				return nil, ErrMarketAPI
			},
			expectedErr: ErrMarketAPI,
		},
		{
			name: "error: repository fails",
			loadFunc: func(ctx context.Context, path string) ([]entity.PriceBar, error) {
				return []entity.PriceBar{validBar("HINDALCO", testTime, 100)}, nil
			},
			upsertErr:   ErrMarketAPI,
			expectedErr: ErrMarketAPI,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockBarRepository{
				UpsertBatchFunc: func(ctx context.Context, bars []entity.PriceBar) error {
					return tc.upsertErr
				},
			}
			uc := NewIngestUsecase(nil, &mockBarLoader{LoadFunc: tc.loadFunc}, repo, nil)

			n, err := uc.IngestFile(ctx, "HINDALCO_1D.xlsx")
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStored, n)
		})
	}
}

func TestIngestUsecase_IngestFile_DuplicateRowsLastWins(t *testing.T) {
	ctx := context.Background()
	testTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	first := validBar("HINDALCO", testTime, 100)
	later := validBar("HINDALCO", testTime.In(time.FixedZone("IST", 5*3600+1800)), 120)
	other := validBar("HINDALCO", testTime.AddDate(0, 0, 1), 110)

	var stored []entity.PriceBar
	repo := &mockBarRepository{
		UpsertBatchFunc: func(ctx context.Context, bars []entity.PriceBar) error {
			stored = bars
			return nil
		},
	}
	loader := &mockBarLoader{LoadFunc: func(ctx context.Context, path string) ([]entity.PriceBar, error) {
		return []entity.PriceBar{first, other, later}, nil
	}}

	n, err := NewIngestUsecase(nil, loader, repo, nil).IngestFile(ctx, "HINDALCO_1D.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, stored, 2)
	assert.True(t, decimal.NewFromInt(120).Equal(stored[0].Close), "later row wins, got %s", stored[0].Close)
	assert.True(t, decimal.NewFromInt(110).Equal(stored[1].Close))
}
