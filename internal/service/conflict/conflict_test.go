package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"launchpad-sync/internal/models"
)

func record(updatedAt time.Time, hash string) *models.Record {
	return &models.Record{
		ID:        "r1",
		UpdatedAt: updatedAt,
		SyncHash:  hash,
	}
}

func TestDetect(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		local    *models.Record
		remote   *models.Record
		conflict bool
	}{
		{
			name:     "remote newer with different hash is a conflict",
			local:    record(t1, "h1"),
			remote:   record(t2, "h2"),
			conflict: true,
		},
		{
			name:     "remote newer with equal hash is not a conflict",
			local:    record(t1, "h1"),
			remote:   record(t2, "h1"),
			conflict: false,
		},
		{
			name:     "equal timestamps never conflict",
			local:    record(t1, "h1"),
			remote:   record(t1, "h2"),
			conflict: false,
		},
		{
			name:     "local ahead never conflicts",
			local:    record(t2, "h1"),
			remote:   record(t1, "h2"),
			conflict: false,
		},
		{
			name:     "remote newer with both hashes blank is a conflict",
			local:    record(t1, ""),
			remote:   record(t2, ""),
			conflict: true,
		},
		{
			name:     "remote newer with only local hash blank is a conflict",
			local:    record(t1, ""),
			remote:   record(t2, "h2"),
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.conflict, Detect(tt.local, tt.remote))
		})
	}
}

func TestHashesEqual(t *testing.T) {
	require.True(t, HashesEqual("h1", "h1"))
	require.False(t, HashesEqual("h1", "h2"))
	require.False(t, HashesEqual("", ""), "never-hashed records are never content-identical")
	require.False(t, HashesEqual("h1", ""))
	require.False(t, HashesEqual("", "h1"))
}
