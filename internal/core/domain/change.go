package domain

import "time"

// ChangeType classifies a filesystem change.
type ChangeType string

// Change types emitted by the notifier and the reconciler.
const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
)

// String returns the string representation.
func (c ChangeType) String() string {
	return string(c)
}

// FileChange is one pending filesystem change, keyed by absolute path
// in the watch engine's pending map.
type FileChange struct {
	// Path is the absolute path the change applies to.
	Path string

	// OldPath is the previous path for renames, when the platform
	// can supply it. Empty otherwise.
	OldPath string

	// Type classifies the change.
	Type ChangeType

	// At is when the change was observed.
	At time.Time
}

// Coalesce merges an incoming change into an existing pending change for
// the same path. Rules, evaluated in order: a rename always wins; a delete
// always wins; a create followed by any subsequent event stays a create
// with a refreshed timestamp; otherwise the newest change wins.
func Coalesce(existing, incoming FileChange) FileChange {
	switch {
	case incoming.Type == ChangeRenamed:
		return incoming
	case existing.Type == ChangeRenamed:
		return existing
	case incoming.Type == ChangeDeleted:
		return incoming
	case existing.Type == ChangeDeleted:
		return existing
	case existing.Type == ChangeCreated:
		existing.At = incoming.At
		return existing
	default:
		if incoming.At.Before(existing.At) {
			return existing
		}
		return incoming
	}
}
