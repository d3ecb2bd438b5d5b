package analyzer

import (
	"math"

	"stock_analyzer/internal/feature/strategy/domain/entity"
)

// tradingDaysPerYear annualizes the Sharpe ratio.
const tradingDaysPerYear = 252

// Compound returns the running product of (1 + r) - 1. Undefined entries
// contribute a factor of 1. The raw series treats them as neutral and the
// strategy series treats them as a zero return, which compounds identically.
func Compound(rs []Return) []float64 {
	out := make([]float64, len(rs))
	acc := 1.0
	for i, r := range rs {
		if r.Defined {
			acc *= 1 + r.Value
		}
		out[i] = acc - 1
	}
	return out
}

// MaxDrawdown returns the most negative (cum - peak) / (1 + peak) over the
// series, where peak is the running maximum of cum. It is 0 when the series
// never falls below its running peak.
func MaxDrawdown(cum []float64) float64 {
	if len(cum) == 0 {
		return 0
	}
	peak := cum[0]
	worst := 0.0
	for _, c := range cum {
		peak = math.Max(peak, c)
		if dd := (c - peak) / (1 + peak); dd < worst {
			worst = dd
		}
	}
	return worst
}

// SharpeRatio is the annualized mean over sample standard deviation of the
// defined returns. Fewer than two samples, identical samples or a zero
// deviation yield 0.
func SharpeRatio(rs []Return) float64 {
	vals := make([]float64, 0, len(rs))
	for _, r := range rs {
		if r.Defined {
			vals = append(vals, r.Value)
		}
	}
	if len(vals) < 2 || allEqual(vals) {
		return 0
	}

	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))

	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(vals)-1))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

func allEqual(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// CountOutcomes counts bars with a positive and a negative defined return.
func CountOutcomes(rs []Return) (wins, losses int) {
	for _, r := range rs {
		if !r.Defined {
			continue
		}
		switch {
		case r.Value > 0:
			wins++
		case r.Value < 0:
			losses++
		}
	}
	return wins, losses
}

// Evaluate aggregates raw and strategy returns into a report. totalTrades is
// the number of trade events; the win rate divides the bar-level win count by
// it.
func Evaluate(raw, strategy []Return, totalTrades int) entity.PerformanceReport {
	rep := entity.PerformanceReport{TotalTrades: totalTrades}

	if cum := Compound(raw); len(cum) > 0 {
		rep.BuyHoldReturn = cum[len(cum)-1]
	}
	stratCum := Compound(strategy)
	if len(stratCum) > 0 {
		rep.FinalReturn = stratCum[len(stratCum)-1]
	}
	rep.MaxDrawdown = MaxDrawdown(stratCum)
	rep.SharpeRatio = SharpeRatio(strategy)
	rep.WinningTrades, rep.LosingTrades = CountOutcomes(strategy)
	if totalTrades > 0 {
		rep.WinRate = float64(rep.WinningTrades) / float64(totalTrades)
	}
	return rep
}
