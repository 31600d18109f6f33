package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"launchpad-sync/internal/localstore"
	"launchpad-sync/internal/models"
)

// FakeLocalStore is an in-memory localstore.Store for unit tests. Error
// hooks let tests inject per-record failures.
type FakeLocalStore struct {
	mu       sync.Mutex
	records  map[models.Kind][]*models.Record
	settings map[string]string

	InsertErr func(kind models.Kind, rec *models.Record) error
	UpdateErr func(kind models.Kind, id string) error
	GetAllErr func(kind models.Kind) error

	InsertCalls int
	UpdateCalls int
}

var _ localstore.Store = (*FakeLocalStore)(nil)

func NewFakeLocalStore() *FakeLocalStore {
	return &FakeLocalStore{
		records:  make(map[models.Kind][]*models.Record),
		settings: make(map[string]string),
	}
}

// Seed places a record directly into the store, bypassing hooks.
func (f *FakeLocalStore) Seed(kind models.Kind, rec models.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[kind] = append(f.records[kind], &rec)
}

func (f *FakeLocalStore) All(kind models.Kind) []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Record, 0, len(f.records[kind]))
	for _, rec := range f.records[kind] {
		out = append(out, *rec)
	}
	return out
}

func (f *FakeLocalStore) GetAllTeamLevel(kind models.Kind) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetAllErr != nil {
		if err := f.GetAllErr(kind); err != nil {
			return nil, err
		}
	}

	out := make([]models.Record, 0)
	for _, rec := range f.records[kind] {
		if rec.IsTeamLevel {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *FakeLocalStore) Get(kind models.Kind, id string) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.find(kind, id)
	if rec == nil {
		return nil, fmt.Errorf("%w: %s %s", localstore.ErrRecordNotFound, kind, id)
	}
	cloned := *rec
	return &cloned, nil
}

func (f *FakeLocalStore) Insert(kind models.Kind, rec *models.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertErr != nil {
		if err := f.InsertErr(kind, rec); err != nil {
			return "", err
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if f.find(kind, rec.ID) != nil {
		return "", fmt.Errorf("duplicate id %s", rec.ID)
	}
	cloned := *rec
	f.records[kind] = append(f.records[kind], &cloned)
	return rec.ID, nil
}

func (f *FakeLocalStore) Update(kind models.Kind, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		if err := f.UpdateErr(kind, id); err != nil {
			return err
		}
	}
	rec := f.find(kind, id)
	if rec == nil {
		return fmt.Errorf("%w: %s %s", localstore.ErrRecordNotFound, kind, id)
	}
	for name, value := range fields {
		if err := applyField(rec, name, value); err != nil {
			return err
		}
	}
	return nil
}

func (f *FakeLocalStore) GetSetting(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings[key], nil
}

func (f *FakeLocalStore) SetSetting(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[key] = value
	return nil
}

// InTransaction snapshots the store and restores it when fn fails,
// mimicking rollback.
func (f *FakeLocalStore) InTransaction(fn func(localstore.Store) error) error {
	snapshot := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

func (f *FakeLocalStore) find(kind models.Kind, id string) *models.Record {
	for _, rec := range f.records[kind] {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (f *FakeLocalStore) snapshot() map[models.Kind][]*models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make(map[models.Kind][]*models.Record, len(f.records))
	for kind, recs := range f.records {
		cloned := make([]*models.Record, 0, len(recs))
		for _, rec := range recs {
			c := *rec
			cloned = append(cloned, &c)
		}
		snapshot[kind] = cloned
	}
	return snapshot
}

func (f *FakeLocalStore) restore(snapshot map[models.Kind][]*models.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = snapshot
}

//nolint:cyclop
func applyField(rec *models.Record, name string, value interface{}) error {
	switch name {
	case "title":
		rec.Title = value.(string)
	case "url":
		rec.URL = value.(string)
	case "executable_path":
		rec.ExecutablePath = value.(string)
	case "parameters":
		rec.Parameters = value.(string)
	case "script_content":
		rec.ScriptContent = value.(string)
	case "script_type":
		rec.ScriptType = value.(string)
	case "is_team_level":
		rec.IsTeamLevel = value.(bool)
	case "is_personal":
		rec.IsPersonal = value.(bool)
	case "created_by":
		rec.CreatedBy = value.(string)
	case "updated_by":
		rec.UpdatedBy = value.(string)
	case "created_at":
		rec.CreatedAt = value.(time.Time)
	case "updated_at":
		rec.UpdatedAt = value.(time.Time)
	case "sync_hash":
		rec.SyncHash = value.(string)
	case "last_sync_at":
		t := value.(time.Time)
		rec.LastSyncAt = &t
	default:
		return fmt.Errorf("%w: %s", localstore.ErrInvalidColumn, name)
	}
	return nil
}
