// Package usecase は価格バーの参照・登録・取り込みのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"stock_analyzer/internal/feature/marketdata/domain"
	"stock_analyzer/internal/feature/marketdata/domain/entity"
)

// BarRepository は価格バーの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type BarRepository interface {
	// Find は銘柄のバーを時刻昇順で返します。instrument が空なら全銘柄を返します。
	Find(ctx context.Context, instrument string) ([]entity.PriceBar, error)
	// Create は1本のバーを登録します。
	Create(ctx context.Context, bar entity.PriceBar) error
	// UpsertBatch は複数のバーを挿入または更新します。
	UpsertBatch(ctx context.Context, bars []entity.PriceBar) error
}

// BarsUsecase は価格バーの参照と登録のユースケースです。
type BarsUsecase struct {
	repo BarRepository
}

// NewBarsUsecase は BarsUsecase の新しいインスタンスを生成します。
func NewBarsUsecase(repo BarRepository) *BarsUsecase {
	return &BarsUsecase{repo: repo}
}

// ListBars は指定銘柄（空なら全銘柄）のバーを返します。
func (u *BarsUsecase) ListBars(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
	return u.repo.Find(ctx, strings.TrimSpace(instrument))
}

// CreateBar はバーを検証してから登録します。
func (u *BarsUsecase) CreateBar(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error) {
	bar.Instrument = strings.TrimSpace(bar.Instrument)
	if err := ValidateBar(bar); err != nil {
		return entity.PriceBar{}, err
	}
	if err := u.repo.Create(ctx, bar); err != nil {
		return entity.PriceBar{}, err
	}
	return bar, nil
}

// ValidateBar はバーの整合性を検証し、違反があれば ErrInvalidBar をラップして返します。
func ValidateBar(bar entity.PriceBar) error {
	switch {
	case bar.Instrument == "":
		return fmt.Errorf("%w: instrument is required", domain.ErrInvalidBar)
	case bar.Time.IsZero():
		return fmt.Errorf("%w: datetime is required", domain.ErrInvalidBar)
	case !bar.Open.IsPositive() || !bar.High.IsPositive() || !bar.Low.IsPositive() || !bar.Close.IsPositive():
		return fmt.Errorf("%w: prices must be positive", domain.ErrInvalidBar)
	case bar.Low.GreaterThan(bar.High):
		return fmt.Errorf("%w: low %s exceeds high %s", domain.ErrInvalidBar, bar.Low, bar.High)
	case bar.Open.LessThan(bar.Low) || bar.Open.GreaterThan(bar.High):
		return fmt.Errorf("%w: open %s outside [%s, %s]", domain.ErrInvalidBar, bar.Open, bar.Low, bar.High)
	case bar.Close.LessThan(bar.Low) || bar.Close.GreaterThan(bar.High):
		return fmt.Errorf("%w: close %s outside [%s, %s]", domain.ErrInvalidBar, bar.Close, bar.Low, bar.High)
	case bar.Volume < 0:
		return fmt.Errorf("%w: volume must not be negative", domain.ErrInvalidBar)
	}
	return nil
}
