// Package dto はstrategyフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import (
	"encoding/json"
	"errors"
	"time"

	"stock_analyzer/internal/feature/strategy/domain"
	"stock_analyzer/internal/feature/strategy/domain/entity"
)

// 評価失敗時にクライアントへ返す固定メッセージ。原因の詳細はログにのみ出力する
const (
	MessageNoData        = "no data"
	MessageInternalError = "internal error"
)

// PublicError は銘柄単位の失敗を公開用の固定文言に置き換えます。
func PublicError(err error) string {
	if errors.Is(err, domain.ErrEmptyInput) {
		return MessageNoData
	}
	return MessageInternalError
}

// SignalResponse は売買イベント1件です。
type SignalResponse struct {
	Datetime string      `json:"datetime"` // ISO-8601
	Price    json.Number `json:"price"`    // 発生バーの終値
	Action   string      `json:"action"`   // BUY / SELL
}

// PerformanceResponse は銘柄ごとの成績指標です。
type PerformanceResponse struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	FinalReturn   float64 `json:"final_return"`
	BuyHoldReturn float64 `json:"buy_hold_return"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
}

// InstrumentResponse は1銘柄分の評価結果です。
// 評価に失敗した銘柄は Error のみを持ちます。成功した銘柄の signals は空でも [] を返します。
type InstrumentResponse struct {
	Instrument  string               `json:"instrument"`
	Signals     *[]SignalResponse    `json:"signals,omitempty"` // 成功時は常に非nil

	Performance *PerformanceResponse `json:"performance,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// NewInstrumentResponse はエンティティからレスポンスDTOを生成します。
func NewInstrumentResponse(r entity.InstrumentResult) InstrumentResponse {
	if !r.OK() {
		return InstrumentResponse{Instrument: r.Instrument, Error: PublicError(r.Err)}
	}

	signals := make([]SignalResponse, 0, len(r.Signals))
	for _, ev := range r.Signals {
		signals = append(signals, SignalResponse{
			Datetime: ev.Time.UTC().Format(time.RFC3339),
			Price:    json.Number(ev.Price.String()),
			Action:   string(ev.Action),
		})
	}

	p := r.Performance
	return InstrumentResponse{
		Instrument: r.Instrument,
		Signals:    &signals,
		Performance: &PerformanceResponse{
			TotalTrades:   p.TotalTrades,
			WinningTrades: p.WinningTrades,
			LosingTrades:  p.LosingTrades,
			WinRate:       p.WinRate,
			FinalReturn:   p.FinalReturn,
			BuyHoldReturn: p.BuyHoldReturn,
			MaxDrawdown:   p.MaxDrawdown,
			SharpeRatio:   p.SharpeRatio,
		},
	}
}
