package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"launchpad-sync/internal/models"
	"launchpad-sync/pkg/db"
	"launchpad-sync/pkg/log"
)

// SQLiteStore implements Store over the embedded catalog database.
type SQLiteStore struct {
	ds     *db.SQLiteDatastore
	q      sqlx.Ext
	inTx   bool
	logger zerolog.Logger
}

func NewSQLiteStore(ds *db.SQLiteDatastore) *SQLiteStore {
	return &SQLiteStore{
		ds:     ds,
		q:      ds.DB,
		logger: log.Logger.With().Str("component", "local_store").Logger(),
	}
}

func (s *SQLiteStore) GetAllTeamLevel(kind models.Kind) ([]models.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	records := make([]models.Record, 0)
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE is_team_level = 1 ORDER BY id",
		strings.Join(localColumns(kind), ", "), kind.LocalTable(),
	)
	if err := sqlx.Select(s.q, &records, query); err != nil {
		s.logger.Error().Err(err).Str("kind", kind.String()).Msg("Failed to list team-level records")
		return nil, fmt.Errorf("failed to list team-level %ss: %w", kind, err)
	}
	return records, nil
}

func (s *SQLiteStore) Get(kind models.Kind, id string) (*models.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	var rec models.Record
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = ?",
		strings.Join(localColumns(kind), ", "), kind.LocalTable(),
	)
	err := sqlx.Get(s.q, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrRecordNotFound, kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Insert(kind models.Kind, rec *models.Record) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	cols := localColumns(kind)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (:%s)",
		kind.LocalTable(), strings.Join(cols, ", "), strings.Join(cols, ", :"),
	)
	if _, err := sqlx.NamedExec(s.q, query, rec); err != nil {
		s.logger.Error().Err(err).Str("kind", kind.String()).Str("id", rec.ID).Msg("Failed to insert record")
		return "", fmt.Errorf("failed to insert %s %s: %w", kind, rec.ID, err)
	}

	s.logger.Debug().Str("kind", kind.String()).Str("id", rec.ID).Msg("Inserted catalog record")
	return rec.ID, nil
}

func (s *SQLiteStore) Update(kind models.Kind, id string, fields map[string]interface{}) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	if len(fields) == 0 {
		return nil
	}

	allowed := updatableColumns(kind)
	names := make([]string, 0, len(fields))
	for name := range fields {
		if !allowed[name] {
			return fmt.Errorf("%w: %s.%s", ErrInvalidColumn, kind.LocalTable(), name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names)+1)
	for _, name := range names {
		assignments = append(assignments, name+" = ?")
		args = append(args, fields[name])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = ?",
		kind.LocalTable(), strings.Join(assignments, ", "),
	)
	result, err := s.q.Exec(query, args...)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", kind.String()).Str("id", id).Msg("Failed to update record")
		return fmt.Errorf("failed to update %s %s: %w", kind, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result for %s %s: %w", kind, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %s", ErrRecordNotFound, kind, id)
	}

	s.logger.Debug().Str("kind", kind.String()).Str("id", id).Int("fields", len(fields)).Msg("Updated catalog record")
	return nil
}

func (s *SQLiteStore) GetSetting(key string) (string, error) {
	var value string
	err := sqlx.Get(s.q, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetSetting(key, value string) error {
	query := "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := s.q.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) InTransaction(fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.ds.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &SQLiteStore{ds: s.ds, q: tx, inTx: true, logger: s.logger}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func localColumns(kind models.Kind) []string {
	return append(kind.Columns(), "last_sync_at")
}

func updatableColumns(kind models.Kind) map[string]bool {
	allowed := make(map[string]bool)
	for _, col := range localColumns(kind) {
		if col == "id" {
			continue
		}
		allowed[col] = true
	}
	return allowed
}
