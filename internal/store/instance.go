package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/metrics"
	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/scoring"
)

// InstanceStore persists one Instance per sync id.
//
// Load never reports a missing instance: the first access creates the
// seeded default. Save replaces the whole record, so of two concurrent
// read-modify-write cycles on the same sync id the later Save wins.
type InstanceStore interface {
	Load(ctx context.Context, syncID string) (*model.Instance, error)
	Save(ctx context.Context, syncID string, inst *model.Instance) error
}

// queries hold the dialect-specific statements for the kinobi_instances table.
type queries struct {
	create string
	get    string
	save   string
}

// rowStore implements InstanceStore over database/sql.
type rowStore struct {
	db      *sql.DB
	q       queries
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// record is the column-level form of an Instance.
type record struct {
	tenders      []byte
	tendingLog   []byte
	lastTendedAt sql.NullInt64
	lastTender   sql.NullString
	chores       []byte
	config       []byte
	tenderScores []byte
}

func (s *rowStore) Load(ctx context.Context, syncID string) (*model.Instance, error) {
	rec, err := s.get(ctx, syncID)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.create(ctx, syncID); err != nil {
			return nil, err
		}
		rec, err = s.get(ctx, syncID)
	}
	if err != nil {
		return nil, fmt.Errorf("get instance %q: %w", syncID, err)
	}

	inst, err := decode(rec)
	if err != nil {
		return nil, fmt.Errorf("decode instance %q: %w", syncID, err)
	}
	instance.Normalize(inst)
	cached := len(inst.TenderScores)
	if scoring.Reconcile(inst) {
		s.logger.Warn("score cache diverged from history, recomputed",
			"sync_id", syncID, "cached", cached, "recomputed", len(inst.TenderScores))
	}
	return inst, nil
}

func (s *rowStore) get(ctx context.Context, syncID string) (record, error) {
	var rec record
	err := s.db.QueryRowContext(ctx, s.q.get, syncID).Scan(
		&rec.tenders, &rec.tendingLog, &rec.lastTendedAt, &rec.lastTender,
		&rec.chores, &rec.config, &rec.tenderScores,
	)
	return rec, err
}

// create seeds a new instance row. A concurrent first access may win the
// insert; the conflict is ignored and both callers read the same row.
func (s *rowStore) create(ctx context.Context, syncID string) error {
	seed, err := encode(instance.New())
	if err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.q.create,
		syncID, string(seed.tenders), string(seed.tendingLog), string(seed.chores), string(seed.config), string(seed.tenderScores),
	)
	if err != nil {
		return fmt.Errorf("create instance %q: %w", syncID, err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		s.metrics.InstanceCreated()
		s.logger.Info("instance created", "sync_id", syncID)
	}
	return nil
}

func (s *rowStore) Save(ctx context.Context, syncID string, inst *model.Instance) error {
	rec, err := encode(inst)
	if err != nil {
		return fmt.Errorf("encode instance %q: %w", syncID, err)
	}
	_, err = s.db.ExecContext(ctx, s.q.save,
		syncID, string(rec.tenders), string(rec.tendingLog), rec.lastTendedAt, rec.lastTender,
		string(rec.chores), string(rec.config), string(rec.tenderScores),
	)
	if err != nil {
		return fmt.Errorf("save instance %q: %w", syncID, err)
	}
	return nil
}

func encode(inst *model.Instance) (record, error) {
	var rec record
	var err error
	// Clone turns nil collections into empty ones so no column holds "null".
	c := inst.Clone()
	if rec.tenders, err = json.Marshal(c.Tenders); err != nil {
		return rec, err
	}
	if rec.tendingLog, err = json.Marshal(c.TendingLog); err != nil {
		return rec, err
	}
	if rec.chores, err = json.Marshal(c.Chores); err != nil {
		return rec, err
	}
	if rec.config, err = json.Marshal(c.Config); err != nil {
		return rec, err
	}
	if rec.tenderScores, err = json.Marshal(c.TenderScores); err != nil {
		return rec, err
	}
	if c.LastTendedTimestamp != nil {
		rec.lastTendedAt = sql.NullInt64{Int64: c.LastTendedTimestamp.Millis(), Valid: true}
	}
	if c.LastTender != nil {
		rec.lastTender = sql.NullString{String: *c.LastTender, Valid: true}
	}
	return rec, nil
}

func decode(rec record) (*model.Instance, error) {
	inst := &model.Instance{Config: model.DefaultConfig()}
	cols := []struct {
		name string
		data []byte
		dst  any
	}{
		{"tenders", rec.tenders, &inst.Tenders},
		{"tending_log", rec.tendingLog, &inst.TendingLog},
		{"chores", rec.chores, &inst.Chores},
		{"config", rec.config, &inst.Config},
		{"tender_scores", rec.tenderScores, &inst.TenderScores},
	}
	for _, col := range cols {
		if len(col.data) == 0 {
			continue
		}
		if err := json.Unmarshal(col.data, col.dst); err != nil {
			return nil, fmt.Errorf("%s: %w", col.name, err)
		}
	}
	if rec.lastTendedAt.Valid {
		inst.LastTendedTimestamp = model.FromMillis(rec.lastTendedAt.Int64).Ptr()
	}
	if rec.lastTender.Valid {
		name := rec.lastTender.String
		inst.LastTender = &name
	}
	return inst, nil
}
