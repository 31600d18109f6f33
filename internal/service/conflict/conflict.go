// Package conflict decides whether two copies of the same catalog record
// diverged concurrently. Resolution lives in the reconciler: on conflict
// the remote copy always wins.
package conflict

import "launchpad-sync/internal/models"

// Detect reports a conflict between two same-identity records: the remote
// copy is strictly newer AND the content fingerprints disagree. A remote
// timestamp that is not strictly newer, or agreeing hashes, means either
// nothing changed or local is already ahead.
func Detect(local, remote *models.Record) bool {
	return remote.UpdatedAt.After(local.UpdatedAt) && !HashesEqual(local.SyncHash, remote.SyncHash)
}

// HashesEqual compares two content fingerprints. A blank hash never equals
// anything, including another blank hash: a record whose writer did not
// assign a fingerprint keeps resyncing until one is assigned.
func HashesEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b
}
