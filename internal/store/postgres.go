package store

import (
	"database/sql"
	"log/slog"

	"github.com/dukerupert/kinobi/internal/metrics"
)

// PostgresStore keeps instances in Postgres with each collection in a JSONB
// column. The db must come from database.OpenPostgres.
type PostgresStore struct {
	rowStore
}

var _ InstanceStore = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB, logger *slog.Logger, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{rowStore{
		db:      db,
		logger:  logger,
		metrics: m,
		q: queries{
			create: `INSERT INTO kinobi_instances (sync_id, tenders, tending_log, chores, config, tender_scores)
				VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5::jsonb, $6::jsonb)
				ON CONFLICT (sync_id) DO NOTHING`,
			get: `SELECT tenders::text, tending_log::text, last_tended_timestamp, last_tender,
					chores::text, config::text, tender_scores::text
				FROM kinobi_instances WHERE sync_id = $1`,
			save: `INSERT INTO kinobi_instances
				(sync_id, tenders, tending_log, last_tended_timestamp, last_tender, chores, config, tender_scores)
				VALUES ($1, $2::jsonb, $3::jsonb, $4, $5, $6::jsonb, $7::jsonb, $8::jsonb)
				ON CONFLICT (sync_id) DO UPDATE SET
					tenders = EXCLUDED.tenders,
					tending_log = EXCLUDED.tending_log,
					last_tended_timestamp = EXCLUDED.last_tended_timestamp,
					last_tender = EXCLUDED.last_tender,
					chores = EXCLUDED.chores,
					config = EXCLUDED.config,
					tender_scores = EXCLUDED.tender_scores,
					updated_at = now()`,
		},
	}}
}
