// Package analytics turns raw classification-history entries and closure
// counters into chart-ready aggregates for the dashboards.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// HistoryEntry is one classification audit record from the ML service.
type HistoryEntry struct {
	ID               int64         `json:"id"`
	Text             string        `json:"text"`
	Service          string        `json:"service"`
	Confidence       float64       `json:"confidence"`
	NeedsModeration  bool          `json:"needs_moderation"`
	TopAlternatives  []Alternative `json:"top_alternatives"`
	Timestamp        time.Time     `json:"timestamp"`
	ProcessingTimeMs float64       `json:"processing_time_ms"`
}

type Alternative struct {
	Service    string  `json:"service"`
	Confidence float64 `json:"confidence"`
}

// HistogramBin is one non-empty confidence interval.
type HistogramBin struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

const (
	histFloor = 75.0
	histCeil  = 100.0
	histStep  = 2.5
)

// ConfidenceHistogram buckets entries into fixed 2.5-point intervals from 75%
// to 100%. Values below 75% fold into the lowest bin; a value exactly on a
// boundary lands in the upper bin (80.0 goes to "80-82.5%"). Empty bins are
// omitted from the result.
func ConfidenceHistogram(entries []HistoryEntry) []HistogramBin {
	n := int((histCeil - histFloor) / histStep) // 10 bins
	counts := make([]int, n)

	for _, e := range entries {
		percent := e.Confidence * 100
		idx := int((percent - histFloor) / histStep)
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1 // 100% belongs to the top bin
		}
		counts[idx]++
	}

	bins := make([]HistogramBin, 0, n)
	for i, count := range counts {
		if count == 0 {
			continue
		}
		bins = append(bins, HistogramBin{Range: binLabel(i), Count: count})
	}
	return bins
}

func binLabel(i int) string {
	lo := histFloor + float64(i)*histStep
	hi := lo + histStep
	return fmt.Sprintf("%s-%s%%", trimFloat(lo), trimFloat(hi))
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// TimePoint is one sample of the dual-line confidence chart.
type TimePoint struct {
	Timestamp        time.Time `json:"timestamp"`
	Service          string    `json:"service"`
	Confidence       float64   `json:"confidence"`
	SecondConfidence *float64  `json:"second_confidence"`
	Gap              *float64  `json:"gap"`
}

// ConfidenceOverTime sorts entries ascending by timestamp and exposes, per
// entry, the primary confidence, the second-ranked alternative's confidence
// when present, and their gap, all as percentages rounded to 0.1.
func ConfidenceOverTime(entries []HistoryEntry) []TimePoint {
	sorted := make([]HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	points := make([]TimePoint, 0, len(sorted))
	for _, e := range sorted {
		p := TimePoint{
			Timestamp:  e.Timestamp,
			Service:    e.Service,
			Confidence: round1(e.Confidence * 100),
		}
		if len(e.TopAlternatives) > 1 {
			second := round1(e.TopAlternatives[1].Confidence * 100)
			gap := round1(p.Confidence - second)
			p.SecondConfidence = &second
			p.Gap = &gap
		}
		points = append(points, p)
	}
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
