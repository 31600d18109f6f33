package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindsOrder(t *testing.T) {
	require.Equal(t, []Kind{KindBookmark, KindExecutable, KindScript}, Kinds())
}

func TestKindValid(t *testing.T) {
	for _, kind := range Kinds() {
		require.True(t, kind.Valid())
	}
	require.False(t, Kind("widget").Valid())
	require.False(t, Kind("").Valid())
}

func TestKindTables(t *testing.T) {
	tests := []struct {
		kind        Kind
		title       string
		localTable  string
		remoteTable string
		payload     []string
	}{
		{KindBookmark, "Bookmark", "bookmarks", "team_bookmarks", []string{"url"}},
		{KindExecutable, "Executable", "executables", "team_executables", []string{"executable_path", "parameters"}},
		{KindScript, "Script", "scripts", "team_scripts", []string{"script_content", "script_type"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.title, tt.kind.Title())
			require.Equal(t, tt.localTable, tt.kind.LocalTable())
			require.Equal(t, tt.remoteTable, tt.kind.RemoteTable())
			require.Equal(t, tt.payload, tt.kind.PayloadColumns())
		})
	}
}

func TestColumnsIncludePayloadAndSharedFields(t *testing.T) {
	cols := KindExecutable.Columns()
	require.Contains(t, cols, "id")
	require.Contains(t, cols, "executable_path")
	require.Contains(t, cols, "parameters")
	require.Contains(t, cols, "sync_hash")
	require.NotContains(t, cols, "url")
	require.NotContains(t, cols, "last_sync_at")
}

func TestColumnsReturnsFreshSlice(t *testing.T) {
	first := KindBookmark.Columns()
	first[0] = "mutated"
	require.Equal(t, "id", KindBookmark.Columns()[0])
}
