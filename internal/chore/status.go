package chore

import (
	"fmt"
	"math"
	"time"

	"github.com/dukerupert/kinobi/internal/model"
)

type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusUrgent  Status = "urgent"
	StatusOverdue Status = "overdue"
)

// DueState is the urgency of a chore at a given instant.
// Progress is elapsed/cycle, floored at 0 and unbounded above.
// Remaining is negative once the chore is overdue.
type DueState struct {
	Progress  float64
	Status    Status
	Remaining time.Duration
}

// ComputeDueState classifies a chore against the instance thresholds.
// A chore that has never been tended is always good.
func ComputeDueState(c model.Chore, cfg model.Config, now time.Time) DueState {
	cycle := c.Cycle()
	if c.LastCompleted == nil || c.DueDate == nil {
		return DueState{Progress: 0, Status: StatusGood, Remaining: cycle}
	}

	elapsed := now.Sub(c.LastCompleted.Time)
	var progress float64
	if cycle > 0 {
		progress = float64(elapsed) / float64(cycle)
	} else {
		progress = math.Inf(1)
	}

	return DueState{
		Progress:  math.Max(0, progress),
		Status:    classify(progress, cfg),
		Remaining: c.DueDate.Sub(now),
	}
}

func classify(progress float64, cfg model.Config) Status {
	switch {
	case progress >= 1:
		return StatusOverdue
	case progress >= cfg.UrgentThreshold/100:
		return StatusUrgent
	case progress >= cfg.WarningThreshold/100:
		return StatusWarning
	default:
		return StatusGood
	}
}

// FormatRemaining renders a signed remaining duration for display.
// Under a day it shows hours, otherwise days and hours.
func FormatRemaining(d time.Duration) string {
	hours := d.Hours()
	if hours < 0 {
		overdue := -hours
		if overdue < 1 {
			return "overdue"
		}
		return spanText(overdue) + " overdue"
	}
	if hours < 1 {
		return "due soon"
	}
	return spanText(hours) + " left"
}

func spanText(hours float64) string {
	if hours < 24 {
		return fmt.Sprintf("%dh", int(math.Round(hours)))
	}
	days := int(hours / 24)
	rem := int(math.Round(math.Mod(hours, 24)))
	if rem == 24 {
		days++
		rem = 0
	}
	if rem == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd %dh", days, rem)
}
