// Package entity defines the domain models for the marketdata feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents one OHLCV sample for an instrument at a point in time.
// Prices are exact decimals; they are converted to float64 only when
// statistics are computed.
type PriceBar struct {
	Instrument string          // Instrument identifier (e.g., "HINDALCO", "AAPL")
	Time       time.Time       // Timestamp of the bar
	Open       decimal.Decimal // Opening price
	High       decimal.Decimal // Highest price during the bar
	Low        decimal.Decimal // Lowest price during the bar
	Close      decimal.Decimal // Closing price
	Volume     int64           // Trading volume (non-negative)
}
