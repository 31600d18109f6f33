package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"launchpad-sync/internal/localstore"
	"launchpad-sync/internal/models"
	"launchpad-sync/internal/remotestore"
	"launchpad-sync/internal/service/reconciler"
	"launchpad-sync/pkg/log"
)

// LastSyncTimestampKey is the settings key under which the completion time
// of the most recent run is durably persisted.
const LastSyncTimestampKey = "last_sync_timestamp"

// SyncResult summarizes one orchestrator run across all entity kinds.
type SyncResult struct {
	Success     bool
	ItemsSynced int
	Conflicts   int
	Errors      []string
	Duration    time.Duration
	KindResults []reconciler.Result
}

func (r SyncResult) clone() SyncResult {
	cloned := r
	cloned.Errors = append([]string(nil), r.Errors...)
	cloned.KindResults = make([]reconciler.Result, len(r.KindResults))
	for i, kr := range r.KindResults {
		cloned.KindResults[i] = kr
		cloned.KindResults[i].Errors = append([]string(nil), kr.Errors...)
	}
	return cloned
}

// SyncStatus is a point-in-time snapshot of the orchestrator state,
// returned by value so callers cannot reach into engine-owned state.
type SyncStatus struct {
	IsSyncing      bool
	LastSyncTime   time.Time
	LastSyncResult SyncResult
}

// Orchestrator owns the sync lifecycle: it guards against overlapping
// runs, drives the three reconcilers in a fixed order, keeps the last
// result, and optionally polls on an interval.
type Orchestrator struct {
	mu           sync.Mutex
	syncing      bool
	lastSyncTime time.Time
	lastResult   SyncResult
	pollStop     chan struct{}

	local       localstore.Store
	remote      remotestore.TeamCatalog
	reconcilers []*reconciler.Reconciler
	now         func() time.Time
	logger      zerolog.Logger
}

func New(local localstore.Store, remote remotestore.TeamCatalog) *Orchestrator {
	kinds := models.Kinds()
	reconcilers := make([]*reconciler.Reconciler, 0, len(kinds))
	for _, kind := range kinds {
		reconcilers = append(reconcilers, reconciler.New(kind, local, remote))
	}

	return &Orchestrator{
		local:       local,
		remote:      remote,
		reconcilers: reconcilers,
		now:         time.Now,
		logger:      log.Logger.With().Str("component", "orchestrator").Logger(),
	}
}

// RunOnce performs a single sync run. When a run is already in flight the
// previous result is returned immediately; callers are never queued or
// blocked behind an active run.
func (o *Orchestrator) RunOnce() SyncResult {
	o.mu.Lock()
	if o.syncing {
		prev := o.lastResult.clone()
		o.mu.Unlock()
		o.logger.Debug().Msg("Sync already in progress, returning previous result")
		return prev
	}
	o.syncing = true
	o.mu.Unlock()

	startTime := o.now()
	result := o.runGuarded()
	completedAt := o.now()
	result.Duration = completedAt.Sub(startTime)

	if err := o.local.SetSetting(LastSyncTimestampKey, completedAt.UTC().Format(time.RFC3339)); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to persist last sync timestamp")
	}

	o.mu.Lock()
	o.lastSyncTime = completedAt
	o.lastResult = result.clone()
	o.syncing = false
	o.mu.Unlock()

	o.logSummary(&result)
	return result
}

// runGuarded shields the orchestrator from a defect escaping a
// reconciler: rather than mis-report partial counts, the whole run
// collapses to a single failure entry.
func (o *Orchestrator) runGuarded() (result SyncResult) {
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error().Interface("panic", p).Msg("Sync run aborted by unexpected failure")
			result = SyncResult{
				Success: false,
				Errors:  []string{fmt.Sprintf("sync run aborted: %v", p)},
			}
		}
	}()
	return o.run()
}

func (o *Orchestrator) run() SyncResult {
	if !o.remote.IsConnected() {
		o.logger.Warn().Msg("Remote store not connected, skipping sync run")
		return SyncResult{
			Success: false,
			Errors:  []string{"remote store not connected"},
		}
	}

	// Kinds reconcile sequentially in a fixed order; each pass fully
	// completes, push phase included, before the next kind starts.
	var result SyncResult
	for _, rec := range o.reconcilers {
		kindResult := rec.Reconcile()
		result.ItemsSynced += kindResult.Synced
		result.Conflicts += kindResult.Conflicts
		result.Errors = append(result.Errors, kindResult.Errors...)
		result.KindResults = append(result.KindResults, *kindResult)
	}
	result.Success = len(result.Errors) == 0
	return result
}

// Start begins interval polling: one immediate run, then one per tick.
// Calling Start while polling is already active is a no-op.
func (o *Orchestrator) Start(interval time.Duration) {
	o.mu.Lock()
	if o.pollStop != nil {
		o.mu.Unlock()
		o.logger.Debug().Msg("Sync polling already active")
		return
	}
	stop := make(chan struct{})
	o.pollStop = stop
	o.mu.Unlock()

	o.logger.Info().Dur("interval", interval).Msg("Starting sync polling")
	go o.poll(interval, stop)
}

// Stop cancels future scheduled runs. It does not interrupt a run that is
// already in flight. Idempotent.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pollStop == nil {
		return
	}
	close(o.pollStop)
	o.pollStop = nil
	o.logger.Info().Msg("Stopped sync polling")
}

// Status returns a snapshot of the orchestrator state.
func (o *Orchestrator) Status() SyncStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return SyncStatus{
		IsSyncing:      o.syncing,
		LastSyncTime:   o.lastSyncTime,
		LastSyncResult: o.lastResult.clone(),
	}
}

func (o *Orchestrator) poll(interval time.Duration, stop chan struct{}) {
	o.runScheduled()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			o.runScheduled()
		case <-stop:
			return
		}
	}
}

// runScheduled keeps the poll loop alive: a failed or panicking run is
// logged and the next tick still fires.
func (o *Orchestrator) runScheduled() {
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error().Interface("panic", p).Msg("Scheduled sync run panicked")
		}
	}()

	result := o.RunOnce()
	if !result.Success {
		o.logger.Warn().Int("errors", len(result.Errors)).Msg("Scheduled sync run finished with errors")
	}
}

func (o *Orchestrator) logSummary(result *SyncResult) {
	o.logger.Info().
		Bool("success", result.Success).
		Int("items_synced", result.ItemsSynced).
		Int("conflicts", result.Conflicts).
		Int("errors", len(result.Errors)).
		Dur("duration", result.Duration).
		Msg("Synchronization completed")
}
