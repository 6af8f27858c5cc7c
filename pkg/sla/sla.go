// Package sla computes the 30-day resolution window for an appeal as a pure
// function of its creation time and an injected "now", so callers recompute it
// on every request and tests need no clock mocking.
package sla

import (
	"time"
)

// WindowDays is the fixed resolution deadline for every appeal.
const WindowDays = 30

const (
	BandOK       = "ok"
	BandWarning  = "warning"
	BandCritical = "critical"
	BandOverdue  = "overdue"
)

// Info is the derived deadline state shown next to an open appeal.
type Info struct {
	Deadline      time.Time `json:"deadline"`
	DaysPassed    int       `json:"days_passed"`
	DaysRemaining int       `json:"days_remaining"`
	Progress      float64   `json:"progress"`
	Band          string    `json:"band"`
}

// Deadline returns createdAt + 30 days.
func Deadline(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, WindowDays)
}

// Compute derives the SLA state at the given instant.
func Compute(createdAt, now time.Time) Info {
	deadline := Deadline(createdAt)
	daysPassed := int(now.Sub(createdAt).Hours() / 24)
	daysRemaining := int(deadline.Sub(now).Hours() / 24)

	progress := float64(daysPassed) / float64(WindowDays) * 100
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}

	return Info{
		Deadline:      deadline,
		DaysPassed:    daysPassed,
		DaysRemaining: daysRemaining,
		Progress:      progress,
		Band:          band(daysRemaining),
	}
}

// For returns the SLA state for an appeal, or nil when its status is terminal:
// closed and rejected appeals carry no deadline at all.
func For(status string, createdAt, now time.Time) *Info {
	if status == "closed" || status == "rejected" {
		return nil
	}
	info := Compute(createdAt, now)
	return &info
}

func band(remaining int) string {
	switch {
	case remaining <= 0:
		return BandOverdue
	case remaining <= 5:
		return BandCritical
	case remaining <= 10:
		return BandWarning
	default:
		return BandOK
	}
}
