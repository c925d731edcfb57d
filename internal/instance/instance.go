// Package instance holds the operations that mutate a sync space's state.
//
// Every operation validates its input before touching the instance; when an
// error is returned the instance is left exactly as it was.
package instance

import (
	"github.com/dukerupert/kinobi/internal/model"
)

const (
	seedChoreName = "Water the plants"
	seedChoreIcon = "🪴"
)

// New returns the state a sync space starts with on first access: one seeded
// chore and the default configuration.
func New() *model.Instance {
	return &model.Instance{
		Tenders:    []model.Tender{},
		TendingLog: []model.HistoryEntry{},
		Chores: []model.Chore{{
			ID:            NewID(prefixChore),
			Name:          seedChoreName,
			Icon:          seedChoreIcon,
			CycleDuration: model.DefaultCycleHours,
			Points:        model.DefaultPoints,
		}},
		Config:       model.DefaultConfig(),
		TenderScores: []model.TenderScore{},
	}
}

// Normalize upgrades records written by older versions: nil collections
// become empty, chores missing a cycle or award get the defaults, and a
// missing dueDate is re-derived from lastCompleted (and dropped without one).
// A lastCompleted of 0 means never completed. Unusable config defaults are
// reset.
func Normalize(inst *model.Instance) {
	if inst.Tenders == nil {
		inst.Tenders = []model.Tender{}
	}
	if inst.TendingLog == nil {
		inst.TendingLog = []model.HistoryEntry{}
	}
	if inst.Chores == nil {
		inst.Chores = []model.Chore{}
	}
	if inst.TenderScores == nil {
		inst.TenderScores = []model.TenderScore{}
	}
	if !validCycle(inst.Config.DefaultCycleDuration) {
		inst.Config.DefaultCycleDuration = model.DefaultCycleHours
	}
	if inst.Config.DefaultPoints <= 0 {
		inst.Config.DefaultPoints = model.DefaultPoints
	}
	for i := range inst.Chores {
		c := &inst.Chores[i]
		if !validCycle(c.CycleDuration) {
			c.CycleDuration = model.DefaultCycleHours
		}
		if c.Points <= 0 {
			c.Points = model.DefaultPoints
		}
		if c.LastCompleted != nil && c.LastCompleted.IsZero() {
			c.LastCompleted = nil
		}
		if c.LastCompleted == nil {
			c.DueDate = nil
		} else if c.DueDate == nil {
			c.DueDate = model.At(c.LastCompleted.Add(c.Cycle())).Ptr()
		}
	}
}
