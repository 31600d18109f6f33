package localstore

import "launchpad-sync/internal/models"

// Store is the typed accessor surface over the local catalog used by the
// sync engine. Implementations must be safe for use from a single
// goroutine at a time; the orchestrator guarantees runs never overlap.
type Store interface {
	// GetAllTeamLevel returns every record of the kind flagged for team
	// sharing, ordered by id.
	GetAllTeamLevel(kind models.Kind) ([]models.Record, error)

	// Get returns a single record by id, or ErrRecordNotFound.
	Get(kind models.Kind, id string) (*models.Record, error)

	// Insert stores a new record and returns its id. When rec.ID is blank
	// a new identity is assigned.
	Insert(kind models.Kind, rec *models.Record) (string, error)

	// Update applies a partial column update to an existing record.
	// Returns ErrRecordNotFound when the id does not exist.
	Update(kind models.Kind, id string, fields map[string]interface{}) error

	// GetSetting returns the stored value for key, or "" when unset.
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	// InTransaction runs fn with every store call inside one transaction.
	// The transaction is rolled back when fn returns an error.
	InTransaction(fn func(Store) error) error
}
