package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/marketdata/usecase"
	"stock_analyzer/internal/platform/externalapi/twelvedata/dto"

	"github.com/shopspring/decimal"
)

// TwelveDataMarket はTwelve Data外部APIから価格バーを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// GetTimeSeries はTwelve Data APIから時系列データを取得し、symbol を銘柄とした価格バーのスライスとして返します。
// APIは新しい順に返しますが、並び順はそのままです（永続化側が時刻でソートします）。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.PriceBar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))
	q.Set("timezone", "UTC")
	q.Set("apikey", t.cfg.APIKey)
	if t.cfg.Exchange != "" {
		q.Set("exchange", t.cfg.Exchange)
	}

	u := fmt.Sprintf("%s/time_series?%s", strings.TrimRight(t.cfg.BaseURL, "/"), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("twelvedata decode: %w", err)
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	bars := make([]entity.PriceBar, 0, len(body.Values))
	for _, v := range body.Values {
		b, err := toPriceBar(symbol, v)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// toPriceBar は1件の値をドメインエンティティに変換します。
func toPriceBar(symbol string, v dto.TimeSeriesValue) (entity.PriceBar, error) {
	tm, err := time.Parse(time.DateTime, v.Datetime)
	if err != nil {
		tm, err = time.Parse(time.DateOnly, v.Datetime)
		if err != nil {
			return entity.PriceBar{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}

	prices := [4]decimal.Decimal{}
	for i, f := range []struct{ name, raw string }{
		{"open", v.Open}, {"high", v.High}, {"low", v.Low}, {"close", v.Close},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return entity.PriceBar{}, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		prices[i] = d
	}

	// 指数や為替は出来高を返さない
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.PriceBar{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}

	return entity.PriceBar{
		Instrument: symbol,
		Time:       tm.UTC(),
		Open:       prices[0],
		High:       prices[1],
		Low:        prices[2],
		Close:      prices[3],
		Volume:     vol,
	}, nil
}
