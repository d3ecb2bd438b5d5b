// Package usecase はクロスオーバー戦略の評価ユースケースを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mdentity "stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/strategy/analyzer"
	"stock_analyzer/internal/feature/strategy/domain"
	"stock_analyzer/internal/feature/strategy/domain/entity"
	"stock_analyzer/internal/platform/metrics"
)

// BarFinder は評価対象のバーを取得するリポジトリです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type BarFinder interface {
	Find(ctx context.Context, instrument string) ([]mdentity.PriceBar, error)
}

// Analyzer は銘柄ごとの戦略評価を実行します。
type Analyzer interface {
	Analyze(ctx context.Context, bars []mdentity.PriceBar, p analyzer.Params) ([]entity.InstrumentResult, error)
}

// StrategyUsecase はバーの取得と戦略評価をまとめます。
type StrategyUsecase struct {
	bars     BarFinder
	analyzer Analyzer
	timeout  time.Duration
}

// NewStrategyUsecase は StrategyUsecase を生成します。timeout が0以下なら打ち切りません。
func NewStrategyUsecase(bars BarFinder, a Analyzer, timeout time.Duration) *StrategyUsecase {
	return &StrategyUsecase{bars: bars, analyzer: a, timeout: timeout}
}

// Performance は instrument（空なら全銘柄）のバーを読み込み、銘柄ごとの評価結果を返します。
//
// ウィンドウが不正なら *domain.InvalidWindowError、バーが1本もなければ domain.ErrEmptyInput を返します。
// 個々の銘柄の失敗は結果の Err に記録され、他の銘柄には影響しません。
func (u *StrategyUsecase) Performance(ctx context.Context, instrument string, p analyzer.Params) ([]entity.InstrumentResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	instrument = strings.TrimSpace(instrument)
	bars, err := u.bars.Find(ctx, instrument)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, domain.ErrEmptyInput
	}

	start := time.Now()
	results, err := u.analyzer.Analyze(ctx, bars, p)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			slog.Warn("instrument analysis failed", "instrument", r.Instrument, "error", r.Err)
		}
	}
	metrics.ObserveAnalysis(time.Since(start), len(results)-failed, failed)

	slog.Info("strategy evaluated",
		"instrument", instrument,
		"short_window", p.ShortWindow,
		"long_window", p.LongWindow,
		"instruments", len(results),
		"failed", failed,
		"bars", len(bars),
	)
	return results, nil
}
