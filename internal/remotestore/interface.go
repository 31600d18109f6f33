package remotestore

import "launchpad-sync/internal/models"

// TeamCatalog is the query surface over the shared team store.
type TeamCatalog interface {
	// IsConnected reports whether the shared store is reachable right now.
	IsConnected() bool

	// GetTeamRecords returns every team-level row of the kind, ordered by id.
	GetTeamRecords(kind models.Kind) ([]models.Record, error)

	// InsertTeamRecord pushes a record new to the shared store. It never
	// overwrites an existing row; updates flow remote-to-local only.
	InsertTeamRecord(kind models.Kind, rec *models.Record) error
}
