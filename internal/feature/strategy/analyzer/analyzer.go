// Package analyzer implements the moving-average crossover strategy: it
// partitions bars per instrument, derives crossover signals and trade events,
// and evaluates returns, drawdown, and Sharpe ratio.
//
// Every instrument is analyzed independently. A failure in one instrument is
// recorded on its result and never affects the others.
package analyzer

import (
	"context"
	"fmt"
	"runtime"

	mdentity "stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/strategy/domain"
	"stock_analyzer/internal/feature/strategy/domain/entity"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultShortWindow = 20
	DefaultLongWindow  = 50
)

// Params are the two moving-average windows.
type Params struct {
	ShortWindow int
	LongWindow  int
}

// DefaultParams returns the 20/50 crossover.
func DefaultParams() Params {
	return Params{ShortWindow: DefaultShortWindow, LongWindow: DefaultLongWindow}
}

// Validate rejects non-positive windows and a long window that does not
// exceed the short one.
func (p Params) Validate() error {
	switch {
	case p.ShortWindow <= 0:
		return &domain.InvalidWindowError{ShortWindow: p.ShortWindow, LongWindow: p.LongWindow, Reason: "short_window must be positive"}
	case p.LongWindow <= 0:
		return &domain.InvalidWindowError{ShortWindow: p.ShortWindow, LongWindow: p.LongWindow, Reason: "long_window must be positive"}
	case p.LongWindow <= p.ShortWindow:
		return &domain.InvalidWindowError{ShortWindow: p.ShortWindow, LongWindow: p.LongWindow, Reason: "long_window must be greater than short_window"}
	}
	return nil
}

// Analyzer fans instruments out over a bounded pool of workers.
type Analyzer struct {
	workers int
}

// New returns an Analyzer running at most workers instruments at once.
// A non-positive value uses GOMAXPROCS.
func New(workers int) *Analyzer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Analyzer{workers: workers}
}

// Analyze runs the pipeline for every instrument present in bars and returns
// one result per instrument in ascending instrument order. Invalid params and
// empty input fail the whole call; anything else fails only its instrument.
// Cancelling ctx abandons instruments that have not started yet.
func (a *Analyzer) Analyze(ctx context.Context, bars []mdentity.PriceBar, p Params) ([]entity.InstrumentResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	groups, err := Partition(bars)
	if err != nil {
		return nil, err
	}
	keys := Instruments(groups)

	results := make([]entity.InstrumentResult, len(keys))
	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = AnalyzeSeries(key, groups[key], p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AnalyzeSeries runs the pipeline for a single instrument's chronologically
// sorted series. Panics are recovered into an ErrComputation result.
func AnalyzeSeries(instrument string, s Series, p Params) (res entity.InstrumentResult) {
	defer func() {
		if r := recover(); r != nil {
			res = entity.InstrumentResult{
				Instrument: instrument,
				Err:        fmt.Errorf("%w: %v", domain.ErrComputation, r),
			}
		}
	}()

	fail := func(err error) entity.InstrumentResult {
		return entity.InstrumentResult{Instrument: instrument, Err: err}
	}

	closes := s.Closes()
	for i, c := range closes {
		if !c.IsPositive() {
			return fail(fmt.Errorf("%w: close %s at %s", domain.ErrMalformedBar, c, s[i].Time))
		}
	}

	short, err := MovingAverage(closes, p.ShortWindow)
	if err != nil {
		return fail(fmt.Errorf("%w: short average: %v", domain.ErrComputation, err))
	}
	long, err := MovingAverage(closes, p.LongWindow)
	if err != nil {
		return fail(fmt.Errorf("%w: long average: %v", domain.ErrComputation, err))
	}

	signals := Signals(short, long, p.ShortWindow)
	trades := ExtractTrades(s, PositionChanges(signals))

	raw, strategy, err := Returns(closes, signals)
	if err != nil {
		return fail(err)
	}

	return entity.InstrumentResult{
		Instrument:  instrument,
		Signals:     trades,
		Performance: Evaluate(raw, strategy, len(trades)),
	}
}
