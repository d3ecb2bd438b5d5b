package adapters

import (
	"context"
	"fmt"
	"time"

	"stock_analyzer/internal/feature/marketdata/domain"
	"stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/marketdata/usecase"
	"stock_analyzer/internal/platform/db"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertBatchSize は一括挿入時に1回のINSERTに含める最大行数です。
const upsertBatchSize = 500

type barGorm struct {
	db *gorm.DB
}

var _ usecase.BarRepository = (*barGorm)(nil)

// NewBarRepository はgormをバックエンドとするBarRepositoryを生成します。
func NewBarRepository(db *gorm.DB) *barGorm {
	return &barGorm{db: db}
}

// PriceBarModel は stock_data テーブルの1行を表します。
type PriceBarModel struct {
	ID         uint      `gorm:"primaryKey"`
	Instrument string    `gorm:"size:32;not null;uniqueIndex:stock_data_inst_time,priority:1"`
	Datetime   time.Time `gorm:"not null;uniqueIndex:stock_data_inst_time,priority:2"`

	Open   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	High   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Low    decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Close  decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Volume int64           `gorm:"not null;default:0"`
}

func (PriceBarModel) TableName() string {
	return "stock_data"
}

func toModel(e entity.PriceBar) PriceBarModel {
	return PriceBarModel{
		Instrument: e.Instrument,
		Datetime:   e.Time,
		Open:       e.Open,
		High:       e.High,
		Low:        e.Low,
		Close:      e.Close,
		Volume:     e.Volume,
	}
}

func toEntity(m PriceBarModel) entity.PriceBar {
	return entity.PriceBar{
		Instrument: m.Instrument,
		Time:       m.Datetime,
		Open:       m.Open,
		High:       m.High,
		Low:        m.Low,
		Close:      m.Close,
		Volume:     m.Volume,
	}
}

// Create は1本のバーを挿入します。同一銘柄・同一時刻のバーが既に存在する場合は ErrDuplicateBar を返します。
func (r *barGorm) Create(ctx context.Context, bar entity.PriceBar) error {
	m := toModel(bar)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s at %s", domain.ErrDuplicateBar, bar.Instrument, bar.Time.Format(time.RFC3339))
		}
		return err
	}
	return nil
}

// UpsertBatch は複数のバーを挿入し、既存の (instrument, datetime) はOHLCVを更新します。
func (r *barGorm) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]PriceBarModel, 0, len(bars))
	for _, e := range bars {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instrument"}, {Name: "datetime"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(&ms, upsertBatchSize).Error
}

// Find は銘柄のバーを時刻の昇順で返します。instrument が空の場合は全銘柄を返します。
func (r *barGorm) Find(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
	var rows []PriceBarModel
	q := r.db.WithContext(ctx)
	if instrument != "" {
		q = q.Where("instrument = ?", instrument)
	}
	if err := q.Order("instrument ASC").Order("datetime ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PriceBar, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
