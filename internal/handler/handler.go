// Package handler implements the JSON API served under /api/{syncId}/.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"time"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/store"
)

// base is shared by every handler: each request loads the whole instance of
// its sync space, applies one operation, and saves it back.
type base struct {
	store  store.InstanceStore
	logger *slog.Logger
	now    func() time.Time
}

func newBase(st store.InstanceStore, logger *slog.Logger, now func() time.Time) base {
	if now == nil {
		now = time.Now
	}
	return base{store: st, logger: logger, now: now}
}

func (b *base) load(w http.ResponseWriter, r *http.Request) (*model.Instance, bool) {
	syncID := r.PathValue("syncId")
	inst, err := b.store.Load(r.Context(), syncID)
	if err != nil {
		b.logger.Error("failed to load instance", "sync_id", syncID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load data"})
		return nil, false
	}
	return inst, true
}

func (b *base) save(w http.ResponseWriter, r *http.Request, inst *model.Instance, action string) bool {
	syncID := r.PathValue("syncId")
	if err := b.store.Save(r.Context(), syncID, inst); err != nil {
		b.logger.Error("failed to "+action, "sync_id", syncID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to " + action})
		return false
	}
	return true
}

// fail maps an operation error onto the response: validation problems are
// 400, unresolved ids 404, anything else 500.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error, action string) {
	var ve *instance.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message})
	case errors.Is(err, instance.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		b.logger.Error("failed to "+action, "sync_id", r.PathValue("syncId"), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to " + action})
	}
}

// decode reads the request body into v. A value of the wrong type is
// reported against its field.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	msg := "invalid JSON"
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		msg = te.Field + ": must be " + describe(te.Type)
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
	return false
}

func describe(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
