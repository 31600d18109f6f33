package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
	"github.com/rs/zerolog"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrator "github.com/golang-migrate/migrate/v4/database/sqlite3"

	"launchpad-sync/pkg/db/migrations"
	"launchpad-sync/pkg/log"
)

// SQLiteDatastore is the embedded local catalog database.
type SQLiteDatastore struct {
	DB              *sqlx.DB
	path            string
	migrationSource migrations.MigrationSource
	logger          zerolog.Logger
}

func NewSQLiteDatastore(path string, migrationSource migrations.MigrationSource) (*SQLiteDatastore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_loc=UTC", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		log.Logger.Error().Err(err).Str("path", path).Msg("Failed to open local catalog")
		return nil, fmt.Errorf("failed to open local catalog: %w", err)
	}

	// sqlite serializes writers; a single connection avoids SQLITE_BUSY
	// churn between the sync engine and concurrent readers.
	db.SetMaxOpenConns(1)

	store := &SQLiteDatastore{
		DB:              db,
		path:            path,
		migrationSource: migrationSource,
		logger: log.Logger.With().
			Str("component", "sqlite_datastore").
			Logger(),
	}

	return store, store.initSchema()
}

func (s *SQLiteDatastore) Path() string {
	return s.path
}

func (s *SQLiteDatastore) Close() error {
	if s.DB != nil {
		s.logger.Info().Msg("Closing local catalog")
		return s.DB.Close()
	}
	return nil
}

func (s *SQLiteDatastore) initSchema() error {
	s.logger.Info().Msg("Initializing local catalog schema via embedded migrations...")
	d, err := s.migrationSource.GetSourceDriver()
	if err != nil {
		return err
	}

	driver, err := sqlitemigrator.WithInstance(s.DB.DB, &sqlitemigrator.Config{})
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not create sqlite driver for migrate")
		return fmt.Errorf("could not create sqlite driver for migrate: %w", err)
	}

	m, err := migrate.NewWithInstance(s.migrationSource.GetSourceType(), d, "sqlite3", driver)
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not create migrate instance")
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if upErr := m.Up(); upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		s.logger.Error().Err(upErr).Msg("Failed to apply migrations")
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not get migration version after applying")
	} else {
		s.logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Migrations applied")
	}

	return nil
}
