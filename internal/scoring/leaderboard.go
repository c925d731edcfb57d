// Package scoring derives per-person scores and the ranked leaderboard from
// an instance's completion log. Nothing here is stored state: every value is
// recomputable from the log and the chore catalog.
package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/dukerupert/kinobi/internal/model"
)

// RecentLimit caps LeaderboardEntry.RecentCompletions.
const RecentLimit = 5

type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "7d"
	PeriodMonth Period = "30d"
)

type SortKey string

const (
	SortPoints      SortKey = "points"
	SortCompletions SortKey = "completions"
	SortAverage     SortKey = "average"
)

// Options refine the base leaderboard.
type Options struct {
	Period Period
	Sort   SortKey
}

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodWeek, PeriodMonth:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortPoints:
		return SortPoints, nil
	case SortCompletions, SortAverage:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Window returns the length of the period, or 0 for all time.
func (p Period) Window() time.Duration {
	switch p {
	case PeriodWeek:
		return 7 * 24 * time.Hour
	case PeriodMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// PointsFor resolves the award for a chore reference. Deleted or unknown
// chores fall back to the default award.
func PointsFor(choreID string, chores []model.Chore) int {
	for _, c := range chores {
		if c.ID == choreID {
			if c.Points > 0 {
				return c.Points
			}
			break
		}
	}
	return model.DefaultPoints
}

// ComputeLeaderboard ranks every tender in the catalog by total points.
func ComputeLeaderboard(inst *model.Instance, now time.Time) []model.LeaderboardEntry {
	return Leaderboard(inst, Options{}, now)
}

// Leaderboard builds the leaderboard with an optional period window and
// alternate sort key. The window re-derives scores from the full log so
// filtered totals stay exact.
func Leaderboard(inst *model.Instance, opts Options, now time.Time) []model.LeaderboardEntry {
	log := inst.TendingLog
	if w := opts.Period.Window(); w > 0 {
		cutoff := now.Add(-w)
		log = make([]model.HistoryEntry, 0, len(inst.TendingLog))
		for _, e := range inst.TendingLog {
			if e.Timestamp.After(cutoff) {
				log = append(log, e)
			}
		}
	}

	entries := make([]model.LeaderboardEntry, 0, len(inst.Tenders))
	for _, t := range inst.Tenders {
		var completions []model.HistoryEntry
		for _, e := range log {
			if e.Person == t.Name {
				completions = append(completions, e)
			}
		}

		score := model.TenderScore{TenderID: t.ID, Name: t.Name}
		for _, e := range completions {
			score.TotalPoints += PointsFor(e.ChoreID, inst.Chores)
			score.CompletionCount++
			if e.Timestamp.After(score.LastActivity.Time) {
				score.LastActivity = e.Timestamp
			}
		}

		entries = append(entries, model.LeaderboardEntry{
			Tender:            t,
			Score:             score,
			RecentCompletions: recent(completions),
		})
	}

	Rerank(entries, opts.Sort)
	return entries
}

func recent(completions []model.HistoryEntry) []model.HistoryEntry {
	sorted := append([]model.HistoryEntry{}, completions...)
	SortHistory(sorted)
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}

// SortHistory orders entries by descending timestamp, keeping insertion
// order among equal timestamps.
func SortHistory(entries []model.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp.Time)
	})
}

// Rerank stable-sorts entries by the key (descending) and assigns 1-based
// ranks, so ties keep their current order.
func Rerank(entries []model.LeaderboardEntry, key SortKey) {
	value := func(e model.LeaderboardEntry) float64 {
		switch key {
		case SortCompletions:
			return float64(e.Score.CompletionCount)
		case SortAverage:
			return average(e.Score)
		default:
			return float64(e.Score.TotalPoints)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return value(entries[i]) > value(entries[j])
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func average(s model.TenderScore) float64 {
	if s.CompletionCount == 0 {
		return 0
	}
	return float64(s.TotalPoints) / float64(s.CompletionCount)
}
