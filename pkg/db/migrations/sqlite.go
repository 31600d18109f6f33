package migrations

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"launchpad-sync/pkg/log"
)

type SQLiteMigration struct {
	fs fs.FS
}

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// NewSQLiteMigration returns the embedded schema migrations for the local
// catalog database.
func NewSQLiteMigration() *SQLiteMigration {
	subFS, err := fs.Sub(sqliteFS, "sqlite")
	if err != nil {
		log.Logger.Error().Err(err).Msg("Failed to create sub filesystem for SQLite migrations")
		return nil
	}
	return &SQLiteMigration{
		fs: subFS,
	}
}

func (s *SQLiteMigration) GetSourceType() string {
	return "iofs"
}

func (s *SQLiteMigration) GetSourceDriver() (source.Driver, error) {
	d, err := iofs.New(s.fs, ".")
	if err != nil {
		log.Logger.Error().Err(err).Msg("Failed to create migration source from embedded files")
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	return d, nil
}
