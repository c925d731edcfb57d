package model

import (
	"math"
	"time"
)

const (
	DefaultCycleHours = 24
	DefaultPoints     = 10

	// MaxCycleHours is the longest cycle a time.Duration can hold.
	MaxCycleHours = float64(math.MaxInt64 / int64(time.Hour))
)

// Chore is a recurring task. CycleDuration is expressed in hours.
// DueDate is set iff LastCompleted is set and always equals
// LastCompleted + CycleDuration at the time of the last tend.
type Chore struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Icon          string     `json:"icon"`
	CycleDuration float64    `json:"cycleDuration"`
	Points        int        `json:"points"`
	LastCompleted *Timestamp `json:"lastCompleted"`
	DueDate       *Timestamp `json:"dueDate"`
}

// Cycle returns the cycle duration as a time.Duration.
func (c Chore) Cycle() time.Duration {
	return HoursToDuration(c.CycleDuration)
}

// HoursToDuration converts fractional hours to a Duration.
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// Tender is a person who tends chores.
type Tender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HistoryEntry records a single completion. Person is free text and ChoreID
// is a soft reference that may point at a deleted chore.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Timestamp Timestamp `json:"timestamp"`
	Person    string    `json:"person"`
	ChoreID   string    `json:"chore_id"`
	Notes     *string   `json:"notes"`
}
