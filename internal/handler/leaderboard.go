package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/kinobi/internal/scoring"
	"github.com/dukerupert/kinobi/internal/store"
)

type LeaderboardHandler struct {
	base
}

func NewLeaderboardHandler(st store.InstanceStore, logger *slog.Logger, now func() time.Time) *LeaderboardHandler {
	return &LeaderboardHandler{base: newBase(st, logger, now)}
}

// Get ranks every tender. Optional query parameters: period (all, 7d, 30d)
// and sort (points, completions, average).
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := scoring.ParsePeriod(q.Get("period"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sortKey, err := scoring.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	board := scoring.Leaderboard(inst, scoring.Options{Period: period, Sort: sortKey}, h.now())
	writeJSON(w, http.StatusOK, board)
}
