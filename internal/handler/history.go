package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/metrics"
	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/store"
)

// HistoryHandler serves the completion log: listing, deletion, tending and
// the last-tended pointer.
type HistoryHandler struct {
	base
	metrics *metrics.Metrics
}

func NewHistoryHandler(st store.InstanceStore, m *metrics.Metrics, logger *slog.Logger, now func() time.Time) *HistoryHandler {
	return &HistoryHandler{base: newBase(st, logger, now), metrics: m}
}

type tendRequest struct {
	Tender  string  `json:"tender"`
	ChoreID string  `json:"choreId"`
	Notes   *string `json:"notes"`
}

type lastTendedResponse struct {
	LastTended *model.Timestamp `json:"lastTended"`
	LastTender *string          `json:"lastTender"`
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, instance.History(inst))
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := instance.DeleteEntry(inst, r.PathValue("id")); err != nil {
		h.fail(w, r, err, "delete history entry")
		return
	}
	if !h.save(w, r, inst, "delete history entry") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) Tend(w http.ResponseWriter, r *http.Request) {
	var req tendRequest
	if !decode(w, r, &req) {
		return
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	entry, err := instance.Tend(inst, instance.TendInput{
		Tender:  req.Tender,
		ChoreID: req.ChoreID,
		Notes:   req.Notes,
	}, h.now())
	if err != nil {
		h.fail(w, r, err, "record tending")
		return
	}
	if !h.save(w, r, inst, "record tending") {
		return
	}
	h.metrics.TendRecorded()

	writeJSON(w, http.StatusCreated, entry)
}

func (h *HistoryHandler) LastTended(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lastTendedResponse{
		LastTended: inst.LastTendedTimestamp,
		LastTender: inst.LastTender,
	})
}
