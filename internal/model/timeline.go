package model

// SnapshotKind distinguishes the three record variants a branch history
// can hold. The kind is derived from the variant-specific fields rather
// than stored, so the on-disk document stays compatible with older files.
type SnapshotKind string

const (
	KindPlain      SnapshotKind = "plain"
	KindRestore    SnapshotKind = "restore"
	KindStashApply SnapshotKind = "stash_apply"
)

// Snapshot is a single immutable record in a branch history. Exactly one
// variant applies: a plain checkpoint, a restore record, or a stash-apply
// record. Use the New* constructors; never set variant fields directly.
type Snapshot struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Auto      bool   `json:"auto"`
	Branch    string `json:"branch"`

	// Restore variant.
	RestoredFrom       string `json:"restored_from,omitempty"`
	SourceBranch       string `json:"source_branch,omitempty"`
	PreRestoreSnapshot string `json:"pre_restore_snapshot,omitempty"`

	// Stash-apply variant.
	StashApplied string `json:"stash_applied,omitempty"`

	Type string `json:"type,omitempty"`
}

// Kind reports which variant this snapshot is.
func (s *Snapshot) Kind() SnapshotKind {
	switch {
	case s.RestoredFrom != "":
		return KindRestore
	case s.StashApplied != "":
		return KindStashApply
	default:
		return KindPlain
	}
}

// NewSnapshot builds a plain checkpoint record.
func NewSnapshot(id, message, branch, timestamp string, auto bool) Snapshot {
	return Snapshot{
		ID:        id,
		Message:   message,
		Timestamp: timestamp,
		Auto:      auto,
		Branch:    branch,
	}
}

// NewRestoreRecord builds the record appended to the current branch when a
// restore is performed. preRestore is the id of the safety snapshot taken
// just before, or empty when the restore ran unsafe.
func NewRestoreRecord(id, message, branch, timestamp, restoredFrom, sourceBranch, preRestore string) Snapshot {
	return Snapshot{
		ID:                 id,
		Message:            message,
		Timestamp:          timestamp,
		Branch:             branch,
		RestoredFrom:       restoredFrom,
		SourceBranch:       sourceBranch,
		PreRestoreSnapshot: preRestore,
	}
}

// NewStashApplyRecord builds the record appended when a stash is applied.
func NewStashApplyRecord(id, message, branch, timestamp, stashID string) Snapshot {
	return Snapshot{
		ID:           id,
		Message:      message,
		Timestamp:    timestamp,
		Branch:       branch,
		StashApplied: stashID,
		Type:         string(KindStashApply),
	}
}

// Branch is one named line of history. Snapshots are append-only and
// chronological; existing entries are never mutated or removed.
type Branch struct {
	Created     string     `json:"created"`
	Description string     `json:"description"`
	Parent      string     `json:"parent,omitempty"`
	Snapshots   []Snapshot `json:"snapshots"`
}

// CloneSnapshots returns an independent copy of the branch history, so a
// fork does not share backing storage with its source.
func (b *Branch) CloneSnapshots() []Snapshot {
	out := make([]Snapshot, len(b.Snapshots))
	copy(out, b.Snapshots)
	return out
}

// Stash is a save-point kept outside any branch history. Stashes form a
// single global stack, tagged with the branch that was active at creation.
type Stash struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Branch    string `json:"branch"`
	Type      string `json:"type"`
}

// TimelineState is the whole persisted document.
type TimelineState struct {
	Branches      map[string]*Branch `json:"branches"`
	CurrentBranch string             `json:"current_branch"`
	Stashes       []Stash            `json:"stashes,omitempty"`
}

// DefaultBranch is the branch every fresh timeline starts on.
const DefaultBranch = "main"

// NewTimelineState returns the initial document: a single empty main
// branch, current, with no stashes.
func NewTimelineState(created string) *TimelineState {
	return &TimelineState{
		Branches: map[string]*Branch{
			DefaultBranch: {
				Created:     created,
				Description: "Main timeline branch",
				Snapshots:   []Snapshot{},
			},
		},
		CurrentBranch: DefaultBranch,
	}
}

// BranchSummary is the listing shape consumed by the CLI.
type BranchSummary struct {
	Name        string
	Current     bool
	Created     string
	Description string
	Snapshots   int
}
