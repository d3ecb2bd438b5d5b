package analyzer

// Signals derives the exposure signal (0 flat, 1 long) for each bar.
//
// Bars before index shortWindow are always flat, whether or not the averages
// are available there. After that a bar is long only when both averages are
// defined and the short one is strictly above the long one; an undefined
// operand compares as false.
func Signals(short, long []Average, shortWindow int) []int {
	n := min(len(short), len(long))
	out := make([]int, n)
	for i := max(shortWindow, 0); i < n; i++ {
		s, l := short[i], long[i]
		if s.Defined && l.Defined && s.Value.GreaterThan(l.Value) {
			out[i] = 1
		}
	}
	return out
}

// PositionChanges differentiates the signal series: +1 marks a move into the
// market, -1 a move out. Index 0 has no predecessor and is reported as 0.
func PositionChanges(signals []int) []int {
	out := make([]int, len(signals))
	for i := 1; i < len(signals); i++ {
		out[i] = signals[i] - signals[i-1]
	}
	return out
}
