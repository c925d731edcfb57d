package instance

import (
	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/scoring"
)

// History returns the log newest first without reordering the stored log.
func History(inst *model.Instance) []model.HistoryEntry {
	out := append([]model.HistoryEntry{}, inst.TendingLog...)
	scoring.SortHistory(out)
	return out
}

// DeleteEntry removes a log entry and repoints the last-tended fields at the
// newest remaining entry. The cached score table is left alone; readers
// recompute scores from the log.
func DeleteEntry(inst *model.Instance, entryID string) error {
	idx := -1
	for i, e := range inst.TendingLog {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("history entry")
	}

	inst.TendingLog = append(inst.TendingLog[:idx:idx], inst.TendingLog[idx+1:]...)
	refreshLastTended(inst)
	return nil
}

func refreshLastTended(inst *model.Instance) {
	if len(inst.TendingLog) == 0 {
		inst.LastTendedTimestamp = nil
		inst.LastTender = nil
		return
	}
	latest := inst.TendingLog[0]
	for _, e := range inst.TendingLog[1:] {
		if e.Timestamp.After(latest.Timestamp.Time) {
			latest = e
		}
	}
	person := latest.Person
	inst.LastTendedTimestamp = latest.Timestamp.Ptr()
	inst.LastTender = &person
}
