package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryWith(conf float64) HistoryEntry {
	return HistoryEntry{Confidence: conf, Timestamp: time.Now()}
}

func TestConfidenceHistogram_BoundaryGoesToUpperBin(t *testing.T) {
	bins := ConfidenceHistogram([]HistoryEntry{entryWith(0.80)})
	require.Len(t, bins, 1)
	assert.Equal(t, "80-82.5%", bins[0].Range)
	assert.Equal(t, 1, bins[0].Count)
}

func TestConfidenceHistogram_BelowFloorFoldsIntoLowestBin(t *testing.T) {
	bins := ConfidenceHistogram([]HistoryEntry{
		entryWith(0.10),
		entryWith(0.74),
		entryWith(0.76),
	})
	require.Len(t, bins, 1)
	assert.Equal(t, "75-77.5%", bins[0].Range)
	assert.Equal(t, 3, bins[0].Count)
}

func TestConfidenceHistogram_TopEdge(t *testing.T) {
	bins := ConfidenceHistogram([]HistoryEntry{entryWith(1.0), entryWith(0.98)})
	require.Len(t, bins, 1)
	assert.Equal(t, "97.5-100%", bins[0].Range)
	assert.Equal(t, 2, bins[0].Count)
}

func TestConfidenceHistogram_EmptyBinsOmitted(t *testing.T) {
	bins := ConfidenceHistogram([]HistoryEntry{
		entryWith(0.76),
		entryWith(0.91),
		entryWith(0.91),
	})
	require.Len(t, bins, 2)
	assert.Equal(t, HistogramBin{Range: "75-77.5%", Count: 1}, bins[0])
	assert.Equal(t, HistogramBin{Range: "90-92.5%", Count: 2}, bins[1])
}

func TestConfidenceHistogram_NoEntries(t *testing.T) {
	assert.Empty(t, ConfidenceHistogram(nil))
}

func TestConfidenceOverTime_SortedAscendingWithGap(t *testing.T) {
	t0 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	entries := []HistoryEntry{
		{
			Service:    "Water supply",
			Confidence: 0.92,
			Timestamp:  t0.Add(2 * time.Hour),
			TopAlternatives: []Alternative{
				{Service: "Water supply", Confidence: 0.92},
				{Service: "Roads", Confidence: 0.81},
			},
		},
		{
			Service:    "Roads",
			Confidence: 0.85,
			Timestamp:  t0,
			// single alternative: no second line, no gap
			TopAlternatives: []Alternative{{Service: "Roads", Confidence: 0.85}},
		},
	}

	points := ConfidenceOverTime(entries)
	require.Len(t, points, 2)

	assert.Equal(t, t0, points[0].Timestamp)
	assert.Equal(t, 85.0, points[0].Confidence)
	assert.Nil(t, points[0].SecondConfidence)
	assert.Nil(t, points[0].Gap)

	assert.Equal(t, 92.0, points[1].Confidence)
	require.NotNil(t, points[1].SecondConfidence)
	assert.Equal(t, 81.0, *points[1].SecondConfidence)
	require.NotNil(t, points[1].Gap)
	assert.Equal(t, 11.0, *points[1].Gap)
}

func TestOnTimePercentage_ZeroClosed(t *testing.T) {
	_, ok := OnTimePercentage(0, 0)
	assert.False(t, ok)
	assert.Equal(t, NoDataSentinel, FormatOnTime(0, 0))
}

func TestOnTimePercentage_Valid(t *testing.T) {
	pct, ok := OnTimePercentage(3, 4)
	assert.True(t, ok)
	assert.Equal(t, 75.0, pct)
	assert.Equal(t, "75.0%", FormatOnTime(3, 4))
}

func TestOnTimeBand(t *testing.T) {
	assert.Equal(t, OnTimeBandGreen, OnTimeBand(80))
	assert.Equal(t, OnTimeBandGreen, OnTimeBand(95.5))
	assert.Equal(t, OnTimeBandYellow, OnTimeBand(60))
	assert.Equal(t, OnTimeBandYellow, OnTimeBand(79.9))
	assert.Equal(t, OnTimeBandRed, OnTimeBand(59.9))
	assert.Equal(t, OnTimeBandRed, OnTimeBand(0))
}
