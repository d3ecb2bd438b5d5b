// Package entity defines the domain models for the instrument feature.
package entity

import "time"

// Instrument は保存済みバーから集計した銘柄の概要です。
type Instrument struct {
	Code  string
	Bars  int64
	First time.Time // 最古のバーの時刻
	Last  time.Time // 最新のバーの時刻
}
