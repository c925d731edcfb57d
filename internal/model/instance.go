package model

// Config tunes defaults for new chores and the due-state thresholds.
// Thresholds are percentages of the chore cycle in [0,100].
type Config struct {
	DefaultCycleDuration float64 `json:"defaultCycleDuration"`
	DefaultPoints        int     `json:"defaultPoints"`
	WarningThreshold     float64 `json:"warningThreshold"`
	UrgentThreshold      float64 `json:"urgentThreshold"`
}

// DefaultConfig returns the configuration every new instance starts with.
func DefaultConfig() Config {
	return Config{
		DefaultCycleDuration: DefaultCycleHours,
		DefaultPoints:        DefaultPoints,
		WarningThreshold:     75,
		UrgentThreshold:      90,
	}
}

// TenderScore is a per-person aggregate derived from the history log.
type TenderScore struct {
	TenderID        string    `json:"tenderId"`
	Name            string    `json:"name"`
	TotalPoints     int       `json:"totalPoints"`
	CompletionCount int       `json:"completionCount"`
	LastActivity    Timestamp `json:"lastActivity"`
}

// LeaderboardEntry is one ranked row of the leaderboard view.
type LeaderboardEntry struct {
	Tender            Tender         `json:"tender"`
	Score             TenderScore    `json:"score"`
	Rank              int            `json:"rank"`
	RecentCompletions []HistoryEntry `json:"recentCompletions"`
}

// Instance is everything one sync space owns.
type Instance struct {
	Tenders             []Tender       `json:"tenders"`
	TendingLog          []HistoryEntry `json:"tending_log"`
	LastTendedTimestamp *Timestamp     `json:"last_tended_timestamp"`
	LastTender          *string        `json:"last_tender"`
	Chores              []Chore        `json:"chores"`
	Config              Config         `json:"config"`
	TenderScores        []TenderScore  `json:"tender_scores"`
}

// Clone returns a deep copy so callers can mutate without aliasing the original.
func (in *Instance) Clone() *Instance {
	out := &Instance{
		Tenders:      append(make([]Tender, 0, len(in.Tenders)), in.Tenders...),
		TendingLog:   make([]HistoryEntry, len(in.TendingLog)),
		Chores:       make([]Chore, len(in.Chores)),
		Config:       in.Config,
		TenderScores: append(make([]TenderScore, 0, len(in.TenderScores)), in.TenderScores...),
	}
	for i, e := range in.TendingLog {
		if e.Notes != nil {
			n := *e.Notes
			e.Notes = &n
		}
		out.TendingLog[i] = e
	}
	for i, c := range in.Chores {
		if c.LastCompleted != nil {
			c.LastCompleted = c.LastCompleted.Ptr()
		}
		if c.DueDate != nil {
			c.DueDate = c.DueDate.Ptr()
		}
		out.Chores[i] = c
	}
	if in.LastTendedTimestamp != nil {
		out.LastTendedTimestamp = in.LastTendedTimestamp.Ptr()
	}
	if in.LastTender != nil {
		s := *in.LastTender
		out.LastTender = &s
	}
	return out
}
