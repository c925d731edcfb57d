package scoring

import "github.com/dukerupert/kinobi/internal/model"

// ComputeScores aggregates the log per person name, in order of each
// name's first appearance. Names need not match a tender in the catalog.
func ComputeScores(inst *model.Instance) []model.TenderScore {
	scores := make([]model.TenderScore, 0)
	index := make(map[string]int)
	for _, e := range inst.TendingLog {
		i, ok := index[e.Person]
		if !ok {
			i = len(scores)
			index[e.Person] = i
			scores = append(scores, model.TenderScore{
				TenderID:     TenderIDFor(e.Person, inst.Tenders),
				Name:         e.Person,
				LastActivity: e.Timestamp,
			})
		}
		s := &scores[i]
		s.TotalPoints += PointsFor(e.ChoreID, inst.Chores)
		s.CompletionCount++
		if e.Timestamp.After(s.LastActivity.Time) {
			s.LastActivity = e.Timestamp
		}
	}
	return scores
}

// TenderIDFor returns the id of the first tender with that exact name, or "".
func TenderIDFor(name string, tenders []model.Tender) string {
	for _, t := range tenders {
		if t.Name == name {
			return t.ID
		}
	}
	return ""
}

// Reconcile replaces the cached score table with one recomputed from the
// log. It reports whether the cache had drifted.
func Reconcile(inst *model.Instance) bool {
	fresh := ComputeScores(inst)
	drifted := !sameScores(inst.TenderScores, fresh)
	inst.TenderScores = fresh
	return drifted
}

func sameScores(cached, fresh []model.TenderScore) bool {
	if len(cached) != len(fresh) {
		return false
	}
	byName := make(map[string]model.TenderScore, len(cached))
	for _, s := range cached {
		byName[s.Name] = s
	}
	for _, f := range fresh {
		c, ok := byName[f.Name]
		if !ok {
			return false
		}
		if c.TotalPoints != f.TotalPoints || c.CompletionCount != f.CompletionCount || c.LastActivity.Millis() != f.LastActivity.Millis() {
			return false
		}
	}
	return true
}
