package testutil

import (
	"fmt"
	"sync"

	"launchpad-sync/internal/models"
	"launchpad-sync/internal/remotestore"
)

// FakeTeamCatalog is an in-memory remotestore.TeamCatalog. The Barrier
// channel, when set, blocks GetTeamRecords until the channel is closed so
// tests can hold a sync run in flight.
type FakeTeamCatalog struct {
	mu        sync.Mutex
	connected bool
	records   map[models.Kind][]*models.Record

	GetErr    func(kind models.Kind) error
	InsertErr func(kind models.Kind, rec *models.Record) error
	Barrier   chan struct{}

	GetCalls    int
	InsertCalls int
}

var _ remotestore.TeamCatalog = (*FakeTeamCatalog)(nil)

func NewFakeTeamCatalog() *FakeTeamCatalog {
	return &FakeTeamCatalog{
		connected: true,
		records:   make(map[models.Kind][]*models.Record),
	}
}

func (f *FakeTeamCatalog) SetConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = connected
}

// Seed places a record directly into the catalog, bypassing hooks.
func (f *FakeTeamCatalog) Seed(kind models.Kind, rec models.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[kind] = append(f.records[kind], &rec)
}

func (f *FakeTeamCatalog) All(kind models.Kind) []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Record, 0, len(f.records[kind]))
	for _, rec := range f.records[kind] {
		out = append(out, *rec)
	}
	return out
}

// GetCallCount reads the GetTeamRecords counter under the lock, safe to
// call while a sync run is in flight.
func (f *FakeTeamCatalog) GetCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetCalls
}

func (f *FakeTeamCatalog) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *FakeTeamCatalog) GetTeamRecords(kind models.Kind) ([]models.Record, error) {
	f.mu.Lock()
	f.GetCalls++
	barrier := f.Barrier
	f.mu.Unlock()

	if barrier != nil {
		<-barrier
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		if err := f.GetErr(kind); err != nil {
			return nil, err
		}
	}
	out := make([]models.Record, 0, len(f.records[kind]))
	for _, rec := range f.records[kind] {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *FakeTeamCatalog) InsertTeamRecord(kind models.Kind, rec *models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertErr != nil {
		if err := f.InsertErr(kind, rec); err != nil {
			return err
		}
	}
	for _, existing := range f.records[kind] {
		if existing.ID == rec.ID {
			return fmt.Errorf("%w: duplicate key %s", remotestore.ErrRemoteGeneric, rec.ID)
		}
	}
	cloned := *rec
	f.records[kind] = append(f.records[kind], &cloned)
	return nil
}
