package reconciler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"launchpad-sync/internal/localstore"
	"launchpad-sync/internal/models"
	"launchpad-sync/internal/remotestore"
	"launchpad-sync/internal/service/conflict"
	"launchpad-sync/pkg/log"
)

// Result aggregates one reconciliation pass over a single entity kind.
type Result struct {
	Kind      models.Kind
	Synced    int
	Conflicts int
	Errors    []string
}

// Reconciler brings one entity kind's local and remote team-level rows
// into agreement: a pull phase applies remote changes to the local
// catalog, then a push phase uploads records the shared store has never
// seen. The same reconciler handles all three kinds; only the kind
// descriptor differs.
type Reconciler struct {
	kind   models.Kind
	local  localstore.Store
	remote remotestore.TeamCatalog
	now    func() time.Time
	logger zerolog.Logger
}

func New(kind models.Kind, local localstore.Store, remote remotestore.TeamCatalog) *Reconciler {
	return &Reconciler{
		kind:   kind,
		local:  local,
		remote: remote,
		now:    time.Now,
		logger: log.Logger.With().
			Str("component", "reconciler").
			Str("kind", kind.String()).
			Logger(),
	}
}

// Reconcile runs one pull-then-push pass. It never fails as a whole: a
// record that cannot be processed lands in Result.Errors and the pass
// moves on to the next record.
func (r *Reconciler) Reconcile() *Result {
	result := &Result{Kind: r.kind}
	r.logger.Debug().Msg("Starting reconciliation pass")

	remoteRecords, err := r.remote.GetTeamRecords(r.kind)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: fetch remote records: %v", r.kind.Title(), err))
		return result
	}

	localRecords, err := r.local.GetAllTeamLevel(r.kind)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: fetch local records: %v", r.kind.Title(), err))
		return result
	}

	localByID := make(map[string]*models.Record, len(localRecords))
	for i := range localRecords {
		localByID[localRecords[i].ID] = &localRecords[i]
	}
	remoteByID := make(map[string]*models.Record, len(remoteRecords))
	for i := range remoteRecords {
		remoteByID[remoteRecords[i].ID] = &remoteRecords[i]
	}

	// Pull phase: the shared store is authoritative for updates.
	for i := range remoteRecords {
		remote := &remoteRecords[i]
		if err := r.pullRecord(remote, localByID[remote.ID], result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", r.kind.Title(), remote.ID, err))
		}
	}

	// Push phase: local rows the shared store has never seen. Existing
	// remote rows are never overwritten here; the pull above already
	// resolved every shared identity. The identity set comes from the
	// snapshot taken before the pull, not a re-query.
	for i := range localRecords {
		local := &localRecords[i]
		if _, exists := remoteByID[local.ID]; exists {
			continue
		}
		if err := r.pushRecord(local); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", r.kind.Title(), local.ID, err))
			continue
		}
		result.Synced++
	}

	r.logger.Debug().
		Int("synced", result.Synced).
		Int("conflicts", result.Conflicts).
		Int("errors", len(result.Errors)).
		Msg("Reconciliation pass completed")
	return result
}

func (r *Reconciler) pullRecord(remote, local *models.Record, result *Result) error {
	if local == nil {
		if err := r.insertFromRemote(remote); err != nil {
			return err
		}
		result.Synced++
		return nil
	}

	if conflict.HashesEqual(local.SyncHash, remote.SyncHash) {
		return nil
	}

	isConflict := conflict.Detect(local, remote)
	if err := r.overwriteFromRemote(local.ID, remote); err != nil {
		return err
	}

	if isConflict {
		r.logger.Debug().Str("id", remote.ID).Msg("Conflict resolved in favor of remote copy")
		result.Conflicts++
	} else {
		result.Synced++
	}
	return nil
}

// insertFromRemote creates a local copy of a remote row, preserving its
// timestamps and fingerprint. Insert and sync-metadata stamp run in one
// transaction so concurrent catalog readers never observe a half-written
// record.
func (r *Reconciler) insertFromRemote(remote *models.Record) error {
	return r.local.InTransaction(func(tx localstore.Store) error {
		rec := *remote
		rec.IsTeamLevel = true
		rec.LastSyncAt = nil

		id, err := tx.Insert(r.kind, &rec)
		if err != nil {
			return err
		}
		return tx.Update(r.kind, id, map[string]interface{}{"last_sync_at": r.now()})
	})
}

func (r *Reconciler) overwriteFromRemote(id string, remote *models.Record) error {
	fields := r.payloadFields(remote)
	fields["title"] = remote.Title
	fields["updated_by"] = remote.UpdatedBy
	fields["updated_at"] = remote.UpdatedAt
	fields["sync_hash"] = remote.SyncHash
	fields["last_sync_at"] = r.now()

	return r.local.Update(r.kind, id, fields)
}

func (r *Reconciler) pushRecord(local *models.Record) error {
	rec := *local
	rec.IsTeamLevel = true
	rec.LastSyncAt = nil

	return r.remote.InsertTeamRecord(r.kind, &rec)
}

func (r *Reconciler) payloadFields(rec *models.Record) map[string]interface{} {
	switch r.kind {
	case models.KindBookmark:
		return map[string]interface{}{"url": rec.URL}
	case models.KindExecutable:
		return map[string]interface{}{
			"executable_path": rec.ExecutablePath,
			"parameters":      rec.Parameters,
		}
	case models.KindScript:
		return map[string]interface{}{
			"script_content": rec.ScriptContent,
			"script_type":    rec.ScriptType,
		}
	default:
		return map[string]interface{}{}
	}
}
