package remotestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"launchpad-sync/internal/models"
	"launchpad-sync/pkg/db"
	"launchpad-sync/pkg/log"
)

const connectivityProbeTimeout = 3 * time.Second

// PostgresTeamCatalog implements TeamCatalog against the shared store.
// Queries run behind a circuit breaker with retry, so one flaky statement
// does not hammer an unhealthy database and a dead one fails fast.
type PostgresTeamCatalog struct {
	psql           *db.PostgresDatastore
	circuitBreaker *gobreaker.CircuitBreaker
	retryOptFunc   func() []backoff.RetryOption
	logger         zerolog.Logger
}

func NewPostgresTeamCatalog(psql *db.PostgresDatastore) *PostgresTeamCatalog {
	return &PostgresTeamCatalog{
		psql:           psql,
		circuitBreaker: newTeamCatalogBreaker(),
		retryOptFunc:   newBackoffStrategy,
		logger:         log.Logger.With().Str("component", "team_catalog").Logger(),
	}
}

//nolint:mnd
func newTeamCatalogBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "team_catalog",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

//nolint:mnd
func newBackoffStrategy() []backoff.RetryOption {
	return []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	}
}

func (r *PostgresTeamCatalog) IsConnected() bool {
	if r.circuitBreaker.State() == gobreaker.StateOpen {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectivityProbeTimeout)
	defer cancel()

	if err := r.psql.Ping(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Shared team store connectivity probe failed")
		return false
	}
	return true
}

func (r *PostgresTeamCatalog) GetTeamRecords(kind models.Kind) ([]models.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE is_team_level = TRUE ORDER BY id",
		strings.Join(kind.Columns(), ", "), kind.RemoteTable(),
	)

	result, err := r.execute(func() (interface{}, error) {
		records := make([]models.Record, 0)
		if err := r.psql.DB.Select(&records, query); err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("kind", kind.String()).Msg("Failed to fetch team records")
		return nil, err
	}

	records := result.([]models.Record)
	r.logger.Debug().Str("kind", kind.String()).Int("count", len(records)).Msg("Fetched team records")
	return records, nil
}

func (r *PostgresTeamCatalog) InsertTeamRecord(kind models.Kind, rec *models.Record) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	cols := kind.Columns()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (:%s)",
		kind.RemoteTable(), strings.Join(cols, ", "), strings.Join(cols, ", :"),
	)

	_, err := r.execute(func() (interface{}, error) {
		if _, execErr := r.psql.DB.NamedExec(query, rec); execErr != nil {
			return nil, execErr
		}
		return nil, nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("kind", kind.String()).Str("id", rec.ID).Msg("Failed to insert team record")
		return err
	}

	r.logger.Debug().Str("kind", kind.String()).Str("id", rec.ID).Msg("Inserted team record")
	return nil
}

// execute wraps one statement in the circuit breaker and retry strategy,
// collapsing failures onto the package sentinel errors.
func (r *PostgresTeamCatalog) execute(op func() (interface{}, error)) (interface{}, error) {
	result, err := r.circuitBreaker.Execute(func() (interface{}, error) {
		return backoff.Retry(context.Background(), op, r.retryOptFunc()...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrRemoteUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrRemoteGeneric, err)
	}
	return result, nil
}
