package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/store"
)

type ConfigHandler struct {
	base
}

func NewConfigHandler(st store.InstanceStore, logger *slog.Logger, now func() time.Time) *ConfigHandler {
	return &ConfigHandler{base: newBase(st, logger, now)}
}

type configRequest struct {
	DefaultCycleDuration *float64 `json:"defaultCycleDuration"`
	DefaultPoints        *int     `json:"defaultPoints"`
	WarningThreshold     *float64 `json:"warningThreshold"`
	UrgentThreshold      *float64 `json:"urgentThreshold"`
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inst.Config)
}

func (h *ConfigHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if !decode(w, r, &req) {
		return
	}

	inst, ok := h.load(w, r)
	if !ok {
		return
	}
	cfg, err := instance.ReplaceConfig(inst, instance.ConfigInput{
		DefaultCycleDuration: req.DefaultCycleDuration,
		DefaultPoints:        req.DefaultPoints,
		WarningThreshold:     req.WarningThreshold,
		UrgentThreshold:      req.UrgentThreshold,
	})
	if err != nil {
		h.fail(w, r, err, "update config")
		return
	}
	if !h.save(w, r, inst, "update config") {
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
