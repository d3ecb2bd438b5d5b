// Package dto defines data transfer objects for the instrument HTTP API.
package dto

import (
	"time"

	"stock_analyzer/internal/feature/instrument/domain/entity"
)

// InstrumentItem represents an instrument in the API response.
type InstrumentItem struct {
	Code  string `json:"code"`
	Bars  int64  `json:"bars"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// NewInstrumentItem converts the entity, formatting times as RFC3339 in UTC.
func NewInstrumentItem(in entity.Instrument) InstrumentItem {
	return InstrumentItem{
		Code:  in.Code,
		Bars:  in.Bars,
		First: in.First.UTC().Format(time.RFC3339),
		Last:  in.Last.UTC().Format(time.RFC3339),
	}
}
