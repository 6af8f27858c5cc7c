package analytics

import (
	"fmt"
)

const (
	OnTimeBandGreen  = "green"
	OnTimeBandYellow = "yellow"
	OnTimeBandRed    = "red"
)

// NoDataSentinel is shown when a service has no closed appeals yet; the
// percentage must never render as 0% or NaN in that case.
const NoDataSentinel = "—"

// OnTimePercentage is (#closed within the window / #total closed) * 100.
// A zero denominator yields 0 with ok=false.
func OnTimePercentage(onTimeCount, totalClosed int64) (float64, bool) {
	if totalClosed <= 0 {
		return 0, false
	}
	return float64(onTimeCount) / float64(totalClosed) * 100, true
}

// FormatOnTime renders the percentage for display, substituting the sentinel
// when there is nothing to measure.
func FormatOnTime(onTimeCount, totalClosed int64) string {
	pct, ok := OnTimePercentage(onTimeCount, totalClosed)
	if !ok {
		return NoDataSentinel
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// OnTimeBand color-bands a valid percentage: >=80 green, >=60 yellow, else red.
func OnTimeBand(pct float64) string {
	switch {
	case pct >= 80:
		return OnTimeBandGreen
	case pct >= 60:
		return OnTimeBandYellow
	default:
		return OnTimeBandRed
	}
}
