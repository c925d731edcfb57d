package store

import (
	"database/sql"
	"log/slog"

	"github.com/dukerupert/kinobi/internal/metrics"
)

// SQLiteStore keeps instances in the kinobi_instances table of a database
// opened with database.Open.
type SQLiteStore struct {
	rowStore
}

var _ InstanceStore = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB, logger *slog.Logger, m *metrics.Metrics) *SQLiteStore {
	return &SQLiteStore{rowStore{
		db:      db,
		logger:  logger,
		metrics: m,
		q: queries{
			create: `INSERT INTO kinobi_instances (sync_id, tenders, tending_log, chores, config, tender_scores)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(sync_id) DO NOTHING`,
			get: `SELECT tenders, tending_log, last_tended_timestamp, last_tender, chores, config, tender_scores
				FROM kinobi_instances WHERE sync_id = ?`,
			save: `INSERT INTO kinobi_instances
				(sync_id, tenders, tending_log, last_tended_timestamp, last_tender, chores, config, tender_scores)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(sync_id) DO UPDATE SET
					tenders = excluded.tenders,
					tending_log = excluded.tending_log,
					last_tended_timestamp = excluded.last_tended_timestamp,
					last_tender = excluded.last_tender,
					chores = excluded.chores,
					config = excluded.config,
					tender_scores = excluded.tender_scores,
					updated_at = CURRENT_TIMESTAMP`,
		},
	}}
}
