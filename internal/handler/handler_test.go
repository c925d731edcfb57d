package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/metrics"
	"github.com/dukerupert/kinobi/internal/model"
)

// memStore is an in-memory InstanceStore with injectable failures.
type memStore struct {
	instances map[string]*model.Instance
	loadErr   error
	saveErr   error
	saves     int
}

func newMemStore() *memStore {
	return &memStore{instances: make(map[string]*model.Instance)}
}

func (s *memStore) Load(_ context.Context, syncID string) (*model.Instance, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	inst, ok := s.instances[syncID]
	if !ok {
		inst = instance.New()
		s.instances[syncID] = inst
	}
	return inst.Clone(), nil
}

func (s *memStore) Save(_ context.Context, syncID string, inst *model.Instance) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.instances[syncID] = inst.Clone()
	return nil
}

var fixedNow = time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(h http.HandlerFunc, pattern, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestLoadFailureIs500(t *testing.T) {
	st := newMemStore()
	st.loadErr = errors.New("disk on fire")
	h := NewTenderHandler(st, testLogger(), nil)

	rec := serve(h.List, "GET /api/{syncId}/tenders", "GET", "/api/home/tenders", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "failed to load data" {
		t.Errorf("error = %q", msg)
	}
}

func TestSaveFailureIs500(t *testing.T) {
	st := newMemStore()
	st.saveErr = errors.New("read-only")
	h := NewTenderHandler(st, testLogger(), nil)

	rec := serve(h.Create, "POST /api/{syncId}/tenders", "POST", "/api/home/tenders", `{"name":"Ann"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "failed to create tender" {
		t.Errorf("error = %q", msg)
	}
}

func TestValidationFailureDoesNotSave(t *testing.T) {
	st := newMemStore()
	h := NewChoreHandler(st, testLogger(), nil)

	rec := serve(h.Create, "POST /api/{syncId}/chores", "POST", "/api/home/chores", `{"name":"Mow"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "invalid name or icon for chore" {
		t.Errorf("error = %q", msg)
	}
	if st.saves != 0 {
		t.Errorf("saves = %d, want 0", st.saves)
	}
}

func TestInvalidJSONSkipsStore(t *testing.T) {
	st := newMemStore()
	st.loadErr = errors.New("should not be called")
	h := NewConfigHandler(st, testLogger(), nil)

	rec := serve(h.Replace, "PUT /api/{syncId}/config", "PUT", "/api/home/config", `{"warningThreshold":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "invalid JSON" {
		t.Errorf("error = %q", msg)
	}
}

func TestWrongFieldTypeNamesField(t *testing.T) {
	st := newMemStore()
	chores := NewChoreHandler(st, testLogger(), nil)
	cfg := NewConfigHandler(st, testLogger(), nil)
	tenders := NewTenderHandler(st, testLogger(), nil)

	cases := []struct {
		name    string
		h       http.HandlerFunc
		pattern string
		method  string
		target  string
		body    string
		want    string
	}{
		{"fractional points", chores.Create, "POST /api/{syncId}/chores", "POST", "/api/home/chores",
			`{"name":"Mow","icon":"🌱","points":12.5}`, "points: must be an integer"},
		{"string threshold", cfg.Replace, "PUT /api/{syncId}/config", "PUT", "/api/home/config",
			`{"defaultCycleDuration":24,"defaultPoints":10,"warningThreshold":"x","urgentThreshold":90}`, "warningThreshold: must be a number"},
		{"numeric name", tenders.Create, "POST /api/{syncId}/tenders", "POST", "/api/home/tenders",
			`{"name":7}`, "name: must be a string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(tc.h, tc.pattern, tc.method, tc.target, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if msg := errorBody(t, rec); msg != tc.want {
				t.Errorf("error = %q, want %q", msg, tc.want)
			}
		})
	}
	if st.saves != 0 {
		t.Errorf("saves = %d, want 0", st.saves)
	}
}

func TestReorderEmptyCatalogIs200(t *testing.T) {
	st := newMemStore()
	inst := instance.New()
	inst.Chores = []model.Chore{}
	st.instances["home"] = inst
	h := NewChoreHandler(st, testLogger(), nil)

	rec := serve(h.Reorder, "PUT /api/{syncId}/chores/reorder", "PUT", "/api/home/chores/reorder", `{"chores":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestHugeCycleIs400(t *testing.T) {
	st := newMemStore()
	h := NewChoreHandler(st, testLogger(), nil)

	rec := serve(h.Create, "POST /api/{syncId}/chores", "POST", "/api/home/chores", `{"name":"Attic","icon":"📦","cycleDuration":3000000}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := errorBody(t, rec); !strings.Contains(msg, "positive number of hours") {
		t.Errorf("error = %q", msg)
	}
}

func TestTendUsesClockAndCountsMetric(t *testing.T) {
	st := newMemStore()
	m := metrics.New()
	h := NewHistoryHandler(st, m, testLogger(), func() time.Time { return fixedNow })

	seed, _ := st.Load(context.Background(), "home")
	body := `{"tender":"Ann","choreId":"` + seed.Chores[0].ID + `","notes":" left side "}`
	rec := serve(h.Tend, "POST /api/{syncId}/tend", "POST", "/api/home/tend", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var entry model.HistoryEntry
	if err := json.NewDecoder(rec.Body).Decode(&entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !entry.Timestamp.Equal(fixedNow) {
		t.Errorf("timestamp = %v, want %v", entry.Timestamp, fixedNow)
	}
	if entry.Notes == nil || *entry.Notes != "left side" {
		t.Errorf("notes = %v, want trimmed", entry.Notes)
	}
	if !strings.HasPrefix(entry.ID, "h_") {
		t.Errorf("id = %q, want h_ prefix", entry.ID)
	}

	saved := st.instances["home"]
	if len(saved.TenderScores) != 1 || saved.TenderScores[0].TotalPoints != 10 {
		t.Errorf("score cache = %+v", saved.TenderScores)
	}
}

func TestTendSaveFailure(t *testing.T) {
	st := newMemStore()
	st.saveErr = errors.New("read-only")
	h := NewHistoryHandler(st, metrics.New(), testLogger(), nil)

	rec := serve(h.Tend, "POST /api/{syncId}/tend", "POST", "/api/home/tend", `{"tender":"Ann","choreId":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "failed to record tending" {
		t.Errorf("error = %q", msg)
	}
}

func TestNotFoundMessage(t *testing.T) {
	h := NewHistoryHandler(newMemStore(), nil, testLogger(), nil)

	rec := serve(h.Delete, "DELETE /api/{syncId}/history/{id}", "DELETE", "/api/home/history/h_missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "history entry not found" {
		t.Errorf("error = %q", msg)
	}
}

func TestVersion(t *testing.T) {
	rec := serve(Version("v2"), "GET /api/{syncId}/app-version", "GET", "/api/home/app-version", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"version":"v2"}` {
		t.Errorf("body = %s", got)
	}
}
