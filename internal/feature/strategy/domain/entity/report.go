// Package entity defines the result types of a moving-average crossover analysis.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the side of a trade event.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// TradeEvent is a crossover of the short average through the long average.
type TradeEvent struct {
	Time   time.Time
	Price  decimal.Decimal // close of the triggering bar
	Action Action
}

// PerformanceReport aggregates the returns of one instrument.
//
// WinningTrades and LosingTrades count bars with a positive or negative
// strategy return, while TotalTrades counts trade events. WinRate divides the
// former by the latter.
type PerformanceReport struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	FinalReturn   float64
	BuyHoldReturn float64
	MaxDrawdown   float64
	SharpeRatio   float64
}

// InstrumentResult is the analysis outcome for one instrument. Exactly one of
// Err or (Signals, Performance) is meaningful.
type InstrumentResult struct {
	Instrument  string
	Signals     []TradeEvent
	Performance PerformanceReport
	Err         error
}

// OK reports whether the instrument was analyzed successfully.
func (r InstrumentResult) OK() bool {
	return r.Err == nil
}
