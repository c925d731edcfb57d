package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/store"
)

type TenderHandler struct {
	base
}

func NewTenderHandler(st store.InstanceStore, logger *slog.Logger, now func() time.Time) *TenderHandler {
	return &TenderHandler{base: newBase(st, logger, now)}
}

type tenderRequest struct {
	Name string `json:"name"`
}

func (h *TenderHandler) List(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inst.Tenders)
}

func (h *TenderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tenderRequest
	if !decode(w, r, &req) {
		return
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	t, err := instance.AddTender(inst, req.Name)
	if err != nil {
		h.fail(w, r, err, "create tender")
		return
	}
	if !h.save(w, r, inst, "create tender") {
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

func (h *TenderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req tenderRequest
	if !decode(w, r, &req) {
		return
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	t, err := instance.RenameTender(inst, r.PathValue("id"), req.Name)
	if err != nil {
		h.fail(w, r, err, "update tender")
		return
	}
	if !h.save(w, r, inst, "update tender") {
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *TenderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := instance.DeleteTender(inst, r.PathValue("id")); err != nil {
		h.fail(w, r, err, "delete tender")
		return
	}
	if !h.save(w, r, inst, "delete tender") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
