package models

import "time"

// Kind identifies one of the three synchronizable catalog entity types.
type Kind string

const (
	KindBookmark   Kind = "bookmark"
	KindExecutable Kind = "executable"
	KindScript     Kind = "script"
)

// Kinds returns all entity kinds in their fixed reconciliation order.
func Kinds() []Kind {
	return []Kind{KindBookmark, KindExecutable, KindScript}
}

func (k Kind) String() string {
	return string(k)
}

// Title is the capitalized form used in per-record error messages.
func (k Kind) Title() string {
	switch k {
	case KindBookmark:
		return "Bookmark"
	case KindExecutable:
		return "Executable"
	case KindScript:
		return "Script"
	default:
		return "Unknown"
	}
}

func (k Kind) Valid() bool {
	switch k {
	case KindBookmark, KindExecutable, KindScript:
		return true
	default:
		return false
	}
}

// LocalTable is the table holding this kind in the local catalog.
func (k Kind) LocalTable() string {
	switch k {
	case KindBookmark:
		return "bookmarks"
	case KindExecutable:
		return "executables"
	case KindScript:
		return "scripts"
	default:
		return ""
	}
}

// RemoteTable is the table holding this kind's team-level rows in the shared store.
func (k Kind) RemoteTable() string {
	switch k {
	case KindBookmark:
		return "team_bookmarks"
	case KindExecutable:
		return "team_executables"
	case KindScript:
		return "team_scripts"
	default:
		return ""
	}
}

// PayloadColumns are the kind-specific content columns.
func (k Kind) PayloadColumns() []string {
	switch k {
	case KindBookmark:
		return []string{"url"}
	case KindExecutable:
		return []string{"executable_path", "parameters"}
	case KindScript:
		return []string{"script_content", "script_type"}
	default:
		return nil
	}
}

// Columns is the full shared column set for this kind, excluding
// last_sync_at which exists only in the local catalog.
func (k Kind) Columns() []string {
	cols := []string{"id", "title"}
	cols = append(cols, k.PayloadColumns()...)
	cols = append(cols,
		"is_team_level",
		"is_personal",
		"created_by",
		"updated_by",
		"created_at",
		"updated_at",
		"sync_hash",
	)
	return cols
}

// Record is the shared shape of a catalog entry across all three kinds.
// Only the payload fields matching the record's kind are meaningful; the
// rest stay zero-valued.
//
// SyncHash is an opaque content fingerprint assigned by whichever side
// last wrote the record. The sync engine only compares hash values, it
// never computes them; a record written without a hash will keep
// resyncing until its writer assigns one.
type Record struct {
	ID    string `db:"id"`
	Title string `db:"title"`

	URL            string `db:"url"`
	ExecutablePath string `db:"executable_path"`
	Parameters     string `db:"parameters"`
	ScriptContent  string `db:"script_content"`
	ScriptType     string `db:"script_type"`

	IsTeamLevel bool `db:"is_team_level"`
	IsPersonal  bool `db:"is_personal"`

	CreatedBy string `db:"created_by"`
	UpdatedBy string `db:"updated_by"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	SyncHash string `db:"sync_hash"`

	// LastSyncAt is stamped by the sync engine when a local record is
	// created or overwritten by a pull. Not meaningful on the remote side.
	LastSyncAt *time.Time `db:"last_sync_at"`
}
