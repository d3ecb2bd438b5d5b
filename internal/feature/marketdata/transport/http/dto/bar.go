// Package dto はmarketdataフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"encoding/json"
	"time"

	"stock_analyzer/internal/feature/marketdata/domain/entity"

	"github.com/shopspring/decimal"
)

// BarRequest は POST /data のリクエストボディです。
// 価格は文字列（"100.5"）と数値（100.5）のどちらでも受け付けます。
type BarRequest struct {
	Datetime   time.Time       `json:"datetime" binding:"required"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Volume     int64           `json:"volume" binding:"gte=0"`
	Instrument string          `json:"instrument" binding:"required,max=32"`
}

// ToEntity はリクエストをドメインエンティティに変換します。
func (r BarRequest) ToEntity() entity.PriceBar {
	return entity.PriceBar{
		Instrument: r.Instrument,
		Time:       r.Datetime,
		Open:       r.Open,
		High:       r.High,
		Low:        r.Low,
		Close:      r.Close,
		Volume:     r.Volume,
	}
}

// BarResponse は価格バーのレスポンスDTOです。
type BarResponse struct {
	Datetime   string      `json:"datetime"`   // ISO-8601
	Open       json.Number `json:"open"`       // 始値
	High       json.Number `json:"high"`       // 高値
	Low        json.Number `json:"low"`        // 安値
	Close      json.Number `json:"close"`      // 終値
	Volume     int64       `json:"volume"`     // 出来高
	Instrument string      `json:"instrument"` // 銘柄
}

// NewBarResponse はエンティティからレスポンスDTOを生成します。
func NewBarResponse(b entity.PriceBar) BarResponse {
	return BarResponse{
		Datetime:   b.Time.UTC().Format(time.RFC3339),
		Open:       json.Number(b.Open.String()),
		High:       json.Number(b.High.String()),
		Low:        json.Number(b.Low.String()),
		Close:      json.Number(b.Close.String()),
		Volume:     b.Volume,
		Instrument: b.Instrument,
	}
}
