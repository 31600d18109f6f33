package testutil

import (
	"time"

	"launchpad-sync/internal/models"
)

// RecordBuilder builds catalog records for tests with sensible team-level
// defaults.
type RecordBuilder struct {
	rec models.Record
}

func NewRecord(id string) *RecordBuilder {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &RecordBuilder{
		rec: models.Record{
			ID:          id,
			Title:       "record " + id,
			IsTeamLevel: true,
			CreatedBy:   "dev@example.com",
			UpdatedBy:   "dev@example.com",
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
			SyncHash:    "hash-" + id,
		},
	}
}

func (b *RecordBuilder) WithTitle(title string) *RecordBuilder {
	b.rec.Title = title
	return b
}

func (b *RecordBuilder) WithURL(url string) *RecordBuilder {
	b.rec.URL = url
	return b
}

func (b *RecordBuilder) WithExecutable(path, parameters string) *RecordBuilder {
	b.rec.ExecutablePath = path
	b.rec.Parameters = parameters
	return b
}

func (b *RecordBuilder) WithScript(content, scriptType string) *RecordBuilder {
	b.rec.ScriptContent = content
	b.rec.ScriptType = scriptType
	return b
}

func (b *RecordBuilder) WithSyncHash(hash string) *RecordBuilder {
	b.rec.SyncHash = hash
	return b
}

func (b *RecordBuilder) WithUpdatedAt(t time.Time) *RecordBuilder {
	b.rec.UpdatedAt = t
	return b
}

func (b *RecordBuilder) WithUpdatedBy(updatedBy string) *RecordBuilder {
	b.rec.UpdatedBy = updatedBy
	return b
}

func (b *RecordBuilder) WithTeamLevel(teamLevel bool) *RecordBuilder {
	b.rec.IsTeamLevel = teamLevel
	return b
}

func (b *RecordBuilder) WithPersonal(personal bool) *RecordBuilder {
	b.rec.IsPersonal = personal
	return b
}

func (b *RecordBuilder) WithLastSyncAt(t time.Time) *RecordBuilder {
	b.rec.LastSyncAt = &t
	return b
}

func (b *RecordBuilder) Build() models.Record {
	return b.rec
}
