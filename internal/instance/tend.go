package instance

import (
	"strings"
	"time"

	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/scoring"
)

// TendInput is a completion as submitted by a client.
type TendInput struct {
	Tender  string
	ChoreID string
	Notes   *string
}

// Tend records a completion at now. A chore id that matches nothing is still
// logged; only the chore state update is skipped.
func Tend(inst *model.Instance, in TendInput, now time.Time) (model.HistoryEntry, error) {
	person := strings.TrimSpace(in.Tender)
	choreID := strings.TrimSpace(in.ChoreID)
	if person == "" {
		return model.HistoryEntry{}, invalid("tender", "tender is required")
	}
	if choreID == "" {
		return model.HistoryEntry{}, invalid("choreId", "chore identifier is required")
	}

	ts := model.At(now)
	points := model.DefaultPoints
	if i := choreIndex(inst, choreID); i >= 0 {
		c := &inst.Chores[i]
		c.LastCompleted = ts.Ptr()
		c.DueDate = model.At(ts.Add(c.Cycle())).Ptr()
		points = c.Points
	}

	entry := model.HistoryEntry{
		ID:        NewID(prefixHistory),
		Timestamp: ts,
		Person:    person,
		ChoreID:   choreID,
		Notes:     trimmedOrNil(in.Notes),
	}
	inst.TendingLog = append(inst.TendingLog, entry)
	inst.LastTendedTimestamp = ts.Ptr()
	inst.LastTender = &person

	bumpScore(inst, person, points, ts)
	return entry, nil
}

// bumpScore upserts the cached accumulator for person.
func bumpScore(inst *model.Instance, person string, points int, ts model.Timestamp) {
	for i := range inst.TenderScores {
		s := &inst.TenderScores[i]
		if s.Name == person {
			s.TotalPoints += points
			s.CompletionCount++
			s.LastActivity = ts
			return
		}
	}
	inst.TenderScores = append(inst.TenderScores, model.TenderScore{
		TenderID:        scoring.TenderIDFor(person, inst.Tenders),
		Name:            person,
		TotalPoints:     points,
		CompletionCount: 1,
		LastActivity:    ts,
	})
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
