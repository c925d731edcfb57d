package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukerupert/kinobi/internal/config"
	"github.com/dukerupert/kinobi/internal/database"
	"github.com/dukerupert/kinobi/internal/metrics"
)

// Open connects the backend selected by cfg.Store. The caller closes the
// returned db.
func Open(cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (InstanceStore, *sql.DB, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := database.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresStore(db, logger, m), db, nil
	case config.StoreSQLite, "":
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteStore(db, logger, m), db, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
