package localstore_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"launchpad-sync/internal/localstore"
	"launchpad-sync/internal/models"
	"launchpad-sync/pkg/db"
	"launchpad-sync/pkg/db/migrations"
	"launchpad-sync/testutil"
)

func newStore(t *testing.T) *localstore.SQLiteStore {
	t.Helper()
	ds, err := db.NewSQLiteDatastore(filepath.Join(t.TempDir(), "catalog.db"), migrations.NewSQLiteMigration())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })
	return localstore.NewSQLiteStore(ds)
}

func TestInsertAndGetRoundTrip(t *testing.T) {
	store := newStore(t)

	rec := testutil.NewRecord("b1").
		WithTitle("team wiki").
		WithURL("https://wiki.internal").
		WithUpdatedBy("lead@example.com").
		Build()

	id, err := store.Insert(models.KindBookmark, &rec)
	require.NoError(t, err)
	require.Equal(t, "b1", id)

	got, err := store.Get(models.KindBookmark, "b1")
	require.NoError(t, err)
	require.Equal(t, "team wiki", got.Title)
	require.Equal(t, "https://wiki.internal", got.URL)
	require.Equal(t, "lead@example.com", got.UpdatedBy)
	require.Equal(t, "hash-b1", got.SyncHash)
	require.True(t, got.IsTeamLevel)
	require.False(t, got.IsPersonal)
	require.Nil(t, got.LastSyncAt)
	require.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
	require.WithinDuration(t, rec.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestInsertGeneratesIDWhenBlank(t *testing.T) {
	store := newStore(t)

	rec := testutil.NewRecord("").WithScript("echo hi", "bash").Build()
	id, err := store.Insert(models.KindScript, &rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Get(models.KindScript, id)
	require.NoError(t, err)
	require.Equal(t, "echo hi", got.ScriptContent)
	require.Equal(t, "bash", got.ScriptType)
}

func TestGetMissingRecord(t *testing.T) {
	store := newStore(t)

	_, err := store.Get(models.KindBookmark, "nope")
	require.ErrorIs(t, err, localstore.ErrRecordNotFound)
}

func TestInvalidKindRejected(t *testing.T) {
	store := newStore(t)

	_, err := store.Get(models.Kind("widget"), "b1")
	require.ErrorIs(t, err, localstore.ErrInvalidKind)

	_, err = store.GetAllTeamLevel(models.Kind("widget"))
	require.ErrorIs(t, err, localstore.ErrInvalidKind)
}

func TestUpdateFields(t *testing.T) {
	store := newStore(t)

	rec := testutil.NewRecord("e1").WithExecutable("/usr/bin/old", "").Build()
	_, err := store.Insert(models.KindExecutable, &rec)
	require.NoError(t, err)

	syncedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err = store.Update(models.KindExecutable, "e1", map[string]interface{}{
		"executable_path": "/usr/bin/new",
		"parameters":      "--verbose",
		"sync_hash":       "h2",
		"last_sync_at":    syncedAt,
	})
	require.NoError(t, err)

	got, err := store.Get(models.KindExecutable, "e1")
	require.NoError(t, err)
	require.Equal(t, "/usr/bin/new", got.ExecutablePath)
	require.Equal(t, "--verbose", got.Parameters)
	require.Equal(t, "h2", got.SyncHash)
	require.NotNil(t, got.LastSyncAt)
	require.WithinDuration(t, syncedAt, *got.LastSyncAt, time.Second)
}

func TestUpdateMissingRecord(t *testing.T) {
	store := newStore(t)

	err := store.Update(models.KindBookmark, "nope", map[string]interface{}{"title": "x"})
	require.ErrorIs(t, err, localstore.ErrRecordNotFound)
}

func TestUpdateRejectsUnknownColumn(t *testing.T) {
	store := newStore(t)

	rec := testutil.NewRecord("b1").Build()
	_, err := store.Insert(models.KindBookmark, &rec)
	require.NoError(t, err)

	err = store.Update(models.KindBookmark, "b1", map[string]interface{}{"id": "b2"})
	require.ErrorIs(t, err, localstore.ErrInvalidColumn)

	err = store.Update(models.KindBookmark, "b1", map[string]interface{}{"script_content": "echo"})
	require.ErrorIs(t, err, localstore.ErrInvalidColumn)
}

func TestGetAllTeamLevelFiltersPersonalRows(t *testing.T) {
	store := newStore(t)

	team1 := testutil.NewRecord("b2").Build()
	team2 := testutil.NewRecord("b1").Build()
	personal := testutil.NewRecord("b3").WithTeamLevel(false).WithPersonal(true).Build()

	for _, rec := range []*models.Record{&team1, &team2, &personal} {
		_, err := store.Insert(models.KindBookmark, rec)
		require.NoError(t, err)
	}

	got, err := store.GetAllTeamLevel(models.KindBookmark)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b1", got[0].ID)
	require.Equal(t, "b2", got[1].ID)
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newStore(t)

	value, err := store.GetSetting("last_sync_timestamp")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, store.SetSetting("last_sync_timestamp", "2024-03-01T12:00:00Z"))
	require.NoError(t, store.SetSetting("last_sync_timestamp", "2024-03-02T12:00:00Z"))

	value, err = store.GetSetting("last_sync_timestamp")
	require.NoError(t, err)
	require.Equal(t, "2024-03-02T12:00:00Z", value)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store := newStore(t)

	errBoom := errors.New("boom")
	err := store.InTransaction(func(tx localstore.Store) error {
		rec := testutil.NewRecord("b1").Build()
		if _, insertErr := tx.Insert(models.KindBookmark, &rec); insertErr != nil {
			return insertErr
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = store.Get(models.KindBookmark, "b1")
	require.ErrorIs(t, err, localstore.ErrRecordNotFound)
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	store := newStore(t)

	err := store.InTransaction(func(tx localstore.Store) error {
		rec := testutil.NewRecord("b1").Build()
		if _, insertErr := tx.Insert(models.KindBookmark, &rec); insertErr != nil {
			return insertErr
		}
		return tx.Update(models.KindBookmark, "b1", map[string]interface{}{
			"last_sync_at": time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	got, err := store.Get(models.KindBookmark, "b1")
	require.NoError(t, err)
	require.NotNil(t, got.LastSyncAt)
}
