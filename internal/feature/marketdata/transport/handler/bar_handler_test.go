package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock_analyzer/internal/feature/marketdata/domain"
	"stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/marketdata/transport/handler"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// mockBarsUsecase はBarsUsecaseインターフェースのモック実装です。
type mockBarsUsecase struct {
	ListBarsFunc  func(ctx context.Context, instrument string) ([]entity.PriceBar, error)
	CreateBarFunc func(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error)
}

func (m *mockBarsUsecase) ListBars(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
	return m.ListBarsFunc(ctx, instrument)
}

func (m *mockBarsUsecase) CreateBar(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error) {
	return m.CreateBarFunc(ctx, bar)
}

func newRouter(uc *mockBarsUsecase) *gin.Engine {
	h := handler.NewBarsHandler(uc)
	r := gin.New()
	r.GET("/data", h.List)
	r.POST("/data", h.Create)
	return r
}

// TestBarsHandler_List はGET /dataのレスポンス整形とエラー処理をテストします。
func TestBarsHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		mockList       func(ctx context.Context, instrument string) ([]entity.PriceBar, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: instrument filter forwarded",
			url:  "/data?instrument=AAPL",
			mockList: func(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
				assert.Equal(t, "AAPL", instrument)
				return []entity.PriceBar{{
					Instrument: "AAPL",
					Time:       testTime,
					Open:       decimal.RequireFromString("100.5"),
					High:       decimal.RequireFromString("105.2"),
					Low:        decimal.RequireFromString("99.3"),
					Close:      decimal.RequireFromString("102.7"),
					Volume:     1500,
				}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"datetime":"2023-01-01T00:00:00Z","open":100.5,"high":105.2,"low":99.3,"close":102.7,"volume":1500,"instrument":"AAPL"}]`,
		},
		{
			name: "success: empty list",
			url:  "/data",
			mockList: func(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
				assert.Equal(t, "", instrument)
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: usecase returns error",
			url:  "/data",
			mockList: func(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
				return nil, errors.New("connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockBarsUsecase{ListBarsFunc: tt.mockList})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestBarsHandler_Create はPOST /dataのバインド・検証・エラーマッピングをテストします。
func TestBarsHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validBody := `{"datetime":"2023-01-01T00:00:00Z","open":"100.5","high":"105.2","low":"99.3","close":"102.7","volume":1500,"instrument":"AAPL"}`

	tests := []struct {
		name           string
		body           string
		mockCreate     func(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: created",
			body: validBody,
			mockCreate: func(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error) {
				assert.True(t, decimal.RequireFromString("102.7").Equal(bar.Close))
				return bar, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"datetime":"2023-01-01T00:00:00Z","open":100.5,"high":105.2,"low":99.3,"close":102.7,"volume":1500,"instrument":"AAPL"}`,
		},
		{
			name:           "error: malformed values",
			body:           `{"datetime":"invalid-date","open":"one hundred","high":105.2,"low":99.3,"close":102.7,"volume":"thousand","instrument":"AAPL"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "error: missing instrument",
			body:           `{"datetime":"2023-01-01T00:00:00Z","open":1,"high":1,"low":1,"close":1,"volume":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name: "error: domain validation",
			body: validBody,
			mockCreate: func(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error) {
				return entity.PriceBar{}, domain.ErrInvalidBar
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid price bar"}`,
		},
		{
			name: "error: duplicate",
			body: validBody,
			mockCreate: func(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error) {
				return entity.PriceBar{}, domain.ErrDuplicateBar
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"price bar already exists"}`,
		},
		{
			name: "error: repository failure hides details",
			body: validBody,
			mockCreate: func(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error) {
				return entity.PriceBar{}, errors.New("pq: connection reset")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockBarsUsecase{CreateBarFunc: tt.mockCreate}
			if uc.CreateBarFunc == nil {
				uc.CreateBarFunc = func(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error) {
					t.Fatal("usecase must not be called for invalid requests")
					return entity.PriceBar{}, nil
				}
			}
			r := newRouter(uc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/data", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
