package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/kinobi/internal/chore"
	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/store"
)

type ChoreHandler struct {
	base
}

func NewChoreHandler(st store.InstanceStore, logger *slog.Logger, now func() time.Time) *ChoreHandler {
	return &ChoreHandler{base: newBase(st, logger, now)}
}

type choreRequest struct {
	Name          *string  `json:"name"`
	Icon          *string  `json:"icon"`
	CycleDuration *float64 `json:"cycleDuration"`
	Points        *int     `json:"points"`
}

type reorderRequest struct {
	Chores []struct {
		ID string `json:"id"`
	} `json:"chores"`
}

type dueStateResponse struct {
	Chore             model.Chore  `json:"chore"`
	Progress          float64      `json:"progress"`
	Status            chore.Status `json:"status"`
	TimeRemaining     float64      `json:"timeRemaining"`
	TimeRemainingText string       `json:"timeRemainingText"`
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inst.Chores)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if !decode(w, r, &req) {
		return
	}

	in := instance.ChoreInput{CycleDuration: req.CycleDuration, Points: req.Points}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Icon != nil {
		in.Icon = *req.Icon
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	c, err := instance.AddChore(inst, in)
	if err != nil {
		h.fail(w, r, err, "create chore")
		return
	}
	if !h.save(w, r, inst, "create chore") {
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if !decode(w, r, &req) {
		return
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	c, err := instance.UpdateChore(inst, r.PathValue("id"), instance.ChorePatch{
		Name:          req.Name,
		Icon:          req.Icon,
		CycleDuration: req.CycleDuration,
		Points:        req.Points,
	})
	if err != nil {
		h.fail(w, r, err, "update chore")
		return
	}
	if !h.save(w, r, inst, "update chore") {
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := instance.DeleteChore(inst, r.PathValue("id")); err != nil {
		h.fail(w, r, err, "delete chore")
		return
	}
	if !h.save(w, r, inst, "delete chore") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	ids := make([]string, len(req.Chores))
	for i, c := range req.Chores {
		ids[i] = c.ID
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	chores, err := instance.ReorderChores(inst, ids)
	if err != nil {
		h.fail(w, r, err, "reorder chores")
		return
	}
	if !h.save(w, r, inst, "reorder chores") {
		return
	}

	writeJSON(w, http.StatusOK, chores)
}

// DueStates reports the urgency of every chore at request time.
func (h *ChoreHandler) DueStates(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}

	now := h.now()
	states := make([]dueStateResponse, 0, len(inst.Chores))
	for _, c := range inst.Chores {
		st := chore.ComputeDueState(c, inst.Config, now)
		states = append(states, dueStateResponse{
			Chore:             c,
			Progress:          st.Progress,
			Status:            st.Status,
			TimeRemaining:     st.Remaining.Hours(),
			TimeRemainingText: chore.FormatRemaining(st.Remaining),
		})
	}
	writeJSON(w, http.StatusOK, states)
}
