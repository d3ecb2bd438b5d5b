// Package adapters はinstrumentフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"stock_analyzer/internal/feature/instrument/domain/entity"
	"stock_analyzer/internal/feature/instrument/usecase"
	mdadapters "stock_analyzer/internal/feature/marketdata/adapters"

	"gorm.io/gorm"
)

// instrumentGorm は stock_data テーブルを集計する InstrumentRepository 実装です。
type instrumentGorm struct {
	db *gorm.DB
}

var _ usecase.InstrumentRepository = (*instrumentGorm)(nil)

// NewInstrumentRepository は指定されたDB接続でリポジトリを生成します。
func NewInstrumentRepository(db *gorm.DB) *instrumentGorm {
	return &instrumentGorm{db: db}
}

type countRow struct {
	Instrument string
	Bars       int64
}

// ListSummaries は銘柄コード順に、バー数と最古・最新の時刻を返します。
func (r *instrumentGorm) ListSummaries(ctx context.Context) ([]entity.Instrument, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&mdadapters.PriceBarModel{}).
		Select("instrument, COUNT(*) AS bars").
		Group("instrument").
		Order("instrument ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Instrument, 0, len(rows))
	for _, row := range rows {
		// 集計関数の結果はドライバによって文字列で返るため、時刻は型付きの列として個別に取得する
		first, err := r.edge(ctx, row.Instrument, "datetime ASC")
		if err != nil {
			return nil, err
		}
		last, err := r.edge(ctx, row.Instrument, "datetime DESC")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Instrument{Code: row.Instrument, Bars: row.Bars, First: first, Last: last})
	}
	return out, nil
}

func (r *instrumentGorm) edge(ctx context.Context, instrument, order string) (time.Time, error) {
	var ts []time.Time
	if err := r.db.WithContext(ctx).
		Model(&mdadapters.PriceBarModel{}).
		Where("instrument = ?", instrument).
		Order(order).
		Limit(1).
		Pluck("datetime", &ts).Error; err != nil {
		return time.Time{}, err
	}
	if len(ts) == 0 {
		return time.Time{}, nil
	}
	return ts[0].UTC(), nil
}
