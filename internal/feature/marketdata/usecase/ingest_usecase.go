package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/shared/ratelimiter"
)

const (
	ingestInterval   = "1day" // 取り込み対象の時間足
	ingestOutputSize = 5000   // 1回のリクエストで取得するデータ件数
)

// MarketRepository は外部APIから株価データを取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.PriceBar, error)
}

// BarLoader はファイルから価格バーを読み込むローダーのインターフェイスです。
type BarLoader interface {
	Load(ctx context.Context, path string) ([]entity.PriceBar, error)
}

// IngestUsecase はファイルまたは外部APIからデータを取得し、データベースに永続化するユースケースです。
type IngestUsecase struct {
	market      MarketRepository
	loader      BarLoader
	bars        BarRepository
	rateLimiter ratelimiter.Limiter
}

// NewIngestUsecase は新しい IngestUsecase を作成します。market と rateLimiter はファイル取り込みのみの場合 nil でも構いません。
func NewIngestUsecase(market MarketRepository, loader BarLoader, bars BarRepository, rateLimiter ratelimiter.Limiter) *IngestUsecase {
	return &IngestUsecase{market: market, loader: loader, bars: bars, rateLimiter: rateLimiter}
}

// IngestFile はスプレッドシートまたはCSVからバーを読み込み、検証を通過した行を一括で永続化します。
// 取り込んだ件数を返します。
func (iu *IngestUsecase) IngestFile(ctx context.Context, path string) (int, error) {
	if iu.loader == nil {
		return 0, fmt.Errorf("ingest file: no loader configured")
	}
	bs, err := iu.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	valid := filterValid(bs, "path", path)
	if err := iu.bars.UpsertBatch(ctx, valid); err != nil {
		return 0, fmt.Errorf("upsert %s: %w", path, err)
	}
	slog.Info("ingested file", "path", path, "rows", len(bs), "stored", len(valid))
	return len(valid), nil
}

// ingestOne は指定された銘柄の日足データを外部リポジトリから取得し、データベースに一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string) error {
	bs, err := iu.market.GetTimeSeries(ctx, symbol, ingestInterval, ingestOutputSize)
	if err != nil {
		return err
	}

	// 取得したデータに銘柄コードを設定
	for i := range bs {
		bs[i].Instrument = symbol
	}
	return iu.bars.UpsertBatch(ctx, filterValid(bs, "symbol", symbol))
}

// IngestAll は指定された全銘柄の日足データを取得し、データベースに永続化します。
// APIのレートリミットを考慮して、リクエスト間に適切な待機時間を設けます。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) error {
	if iu.market == nil {
		return fmt.Errorf("ingest all: no market configured")
	}
	for _, s := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if iu.rateLimiter != nil {
			if err := iu.rateLimiter.Wait(ctx); err != nil {
				return err
			}
		}
		if err := iu.ingestOne(ctx, s); err != nil {
			// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の銘柄へ
			slog.Error("failed to ingest data", "symbol", s, "error", err)
			continue
		}
	}
	return nil
}

// barKey は (instrument, datetime) の一意キーです。
type barKey struct {
	instrument string
	time       time.Time
}

// filterValid は検証に失敗したバーを警告ログとともに除外します。
// 同一の (instrument, datetime) が複数ある場合は後の行で上書きします（1回のUPSERT内で同じ行は一度しか更新できない）。
func filterValid(bs []entity.PriceBar, sourceKey, source string) []entity.PriceBar {
	out := make([]entity.PriceBar, 0, len(bs))
	seen := make(map[barKey]int, len(bs))
	for _, b := range bs {
		if err := ValidateBar(b); err != nil {
			slog.Warn("skipping invalid bar", sourceKey, source, "instrument", b.Instrument, "time", b.Time, "error", err)
			continue
		}
		k := barKey{instrument: b.Instrument, time: b.Time.UTC()}
		if i, dup := seen[k]; dup {
			slog.Warn("duplicate bar, keeping the later row", sourceKey, source, "instrument", b.Instrument, "time", b.Time)
			out[i] = b
			continue
		}
		seen[k] = len(out)
		out = append(out, b)
	}
	return out
}
