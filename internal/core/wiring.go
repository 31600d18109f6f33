package core

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"launchpad-sync/internal/config"
	"launchpad-sync/internal/localstore"
	"launchpad-sync/internal/remotestore"
	"launchpad-sync/internal/service/orchestrator"
	"launchpad-sync/pkg/db"
	"launchpad-sync/pkg/db/migrations"
	"launchpad-sync/pkg/log"
)

// Wiring builds and memoizes the application components so every command
// shares the same datastore handles.
type Wiring struct {
	config *config.Config
	logger zerolog.Logger

	sqliteDatastore   *db.SQLiteDatastore
	postgresDatastore *db.PostgresDatastore
}

func NewWiring(cfg *config.Config) *Wiring {
	return &Wiring{
		config: cfg,
		logger: log.Logger.With().Str("component", "wiring").Logger(),
	}
}

func (w *Wiring) GetConfig() *config.Config {
	return w.config
}

func (w *Wiring) Interval() time.Duration {
	return time.Duration(w.config.Interval) * time.Second
}

func (w *Wiring) InitSQLiteDatastore() *db.SQLiteDatastore {
	if w.sqliteDatastore == nil {
		var err error
		w.sqliteDatastore, err = db.NewSQLiteDatastore(w.config.Local.Path, migrations.NewSQLiteMigration())
		if err != nil {
			w.logger.Error().Err(err).Msg("Failed to open local catalog")
			os.Exit(-1)
		}
	}
	return w.sqliteDatastore
}

func (w *Wiring) InitPostgresDatastore() *db.PostgresDatastore {
	if w.postgresDatastore == nil {
		var err error
		w.postgresDatastore, err = db.NewPostgresDatastore(&w.config.Postgres, migrations.NewPostgresMigration())
		if err != nil {
			w.logger.Error().Err(err).Msg("Failed to create Postgres datastore")
			os.Exit(-1)
		}
	}
	return w.postgresDatastore
}

func (w *Wiring) InitLocalStore() localstore.Store {
	return localstore.NewSQLiteStore(w.InitSQLiteDatastore())
}

func (w *Wiring) InitTeamCatalog() remotestore.TeamCatalog {
	return remotestore.NewPostgresTeamCatalog(w.InitPostgresDatastore())
}

func (w *Wiring) InitOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(w.InitLocalStore(), w.InitTeamCatalog())
}

// Close releases the datastore handles opened by this wiring.
func (w *Wiring) Close() {
	if w.postgresDatastore != nil {
		if err := w.postgresDatastore.Close(); err != nil {
			w.logger.Error().Err(err).Msg("Failed to close Postgres datastore")
		}
	}
	if w.sqliteDatastore != nil {
		if err := w.sqliteDatastore.Close(); err != nil {
			w.logger.Error().Err(err).Msg("Failed to close local catalog")
		}
	}
}
