package service

import (
	"fmt"
	"sync"
	"time"

	"rewind/internal/logs"
	"rewind/internal/model"
	"rewind/internal/store"
)

// TimelineService implements the timeline operations. Every mutating call
// loads the full document, mutates it in memory and persists it back, so
// no call can leave a half-applied change behind.
type TimelineService struct {
	store *store.Store
}

func New(st *store.Store) *TimelineService {
	return &TimelineService{store: st}
}

// Ids derive from wall-clock seconds, which collide when two records are
// minted within the same second. The guard bumps past the last issued
// value so ids stay unique and ordered within the process.
var (
	idMu   sync.Mutex
	lastID int64
)

func newID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().Unix()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return fmt.Sprintf("%s_%d", prefix, now)
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}

// CurrentBranch returns the active branch name, defaulting to main when
// the pointer record is missing.
func (s *TimelineService) CurrentBranch() string {
	return s.store.CurrentBranch()
}

// ListBranches summarizes every branch. Order follows map iteration and
// is not guaranteed.
func (s *TimelineService) ListBranches() ([]model.BranchSummary, error) {
	st, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	current := s.store.CurrentBranch()

	branches := make([]model.BranchSummary, 0, len(st.Branches))
	for name, b := range st.Branches {
		branches = append(branches, model.BranchSummary{
			Name:        name,
			Current:     name == current,
			Created:     b.Created,
			Description: b.Description,
			Snapshots:   len(b.Snapshots),
		})
	}
	return branches, nil
}

// ListSnapshots returns the history of the named branch (current branch
// when empty), oldest first. An absent branch yields an empty list.
func (s *TimelineService) ListSnapshots(branch string) ([]model.Snapshot, error) {
	st, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	name := branch
	if name == "" {
		name = s.store.CurrentBranch()
	}
	b, ok := st.Branches[name]
	if !ok {
		return []model.Snapshot{}, nil
	}
	return b.CloneSnapshots(), nil
}

// CreateBranch forks a new branch from fromBranch (current branch when
// empty), copying its history. Returns false without mutating anything
// when the name is already taken. The new branch is not switched to.
func (s *TimelineService) CreateBranch(name, description, fromBranch string) (bool, error) {
	st, err := s.store.Load()
	if err != nil {
		return false, err
	}

	if _, exists := st.Branches[name]; exists {
		logs.Warn("Branch '%s' already exists", name)
		return false, nil
	}

	source := fromBranch
	if source == "" {
		source = s.store.CurrentBranch()
	}

	branch := &model.Branch{
		Created:     timestamp(),
		Description: description,
		Parent:      source,
		Snapshots:   []model.Snapshot{},
	}
	if src, ok := st.Branches[source]; ok {
		branch.Snapshots = src.CloneSnapshots()
	}

	st.Branches[name] = branch
	if err := s.store.Save(st); err != nil {
		return false, err
	}
	logs.Info("Created branch '%s' from '%s' (%d snapshots copied)", name, source, len(branch.Snapshots))
	return true, nil
}

// SwitchBranch makes name the current branch. Returns false when the
// branch does not exist.
func (s *TimelineService) SwitchBranch(name string) (bool, error) {
	st, err := s.store.Load()
	if err != nil {
		return false, err
	}

	if _, ok := st.Branches[name]; !ok {
		return false, nil
	}

	st.CurrentBranch = name
	if err := s.store.Save(st); err != nil {
		return false, err
	}
	if err := s.store.WriteCurrentBranch(name); err != nil {
		// The document already carries the switch; a stale mirror only
		// degrades the fast-path read.
		logs.Warn("Failed to update current branch mirror: %v", err)
	}
	logs.Info("Switched to branch '%s'", name)
	return true, nil
}

// CreateSnapshot appends a plain checkpoint to the current branch,
// creating the branch entry on the fly if it is somehow absent.
func (s *TimelineService) CreateSnapshot(message string, auto bool) (string, error) {
	st, err := s.store.Load()
	if err != nil {
		return "", err
	}
	current := s.store.CurrentBranch()
	ensureBranch(st, current)

	id := newID("snap")
	snap := model.NewSnapshot(id, message, current, timestamp(), auto)
	st.Branches[current].Snapshots = append(st.Branches[current].Snapshots, snap)

	if err := s.store.Save(st); err != nil {
		return "", err
	}
	logs.Info("Created snapshot %s on branch '%s' (auto=%v)", id, current, auto)
	return id, nil
}

// RestoreSnapshot records the intent to roll back to snapshotID. When
// safe, an automatic checkpoint is appended first so the restore itself
// can be undone. The restore record always lands on the current branch,
// even when the snapshot belongs to another one. Returns false without
// mutating anything when the id is unknown. Acting on the record is the
// caller's business; the timeline only keeps the books.
func (s *TimelineService) RestoreSnapshot(snapshotID string, safe bool) (bool, error) {
	st, err := s.store.Load()
	if err != nil {
		return false, err
	}

	target, sourceBranch := findSnapshot(st, snapshotID)
	if target == nil {
		return false, nil
	}

	current := s.store.CurrentBranch()
	ensureBranch(st, current)

	preRestoreID := ""
	if safe {
		preRestoreID = newID("snap")
		safety := model.NewSnapshot(
			preRestoreID,
			fmt.Sprintf("Auto-snapshot before restore to %s", snapshotID),
			current, timestamp(), true,
		)
		st.Branches[current].Snapshots = append(st.Branches[current].Snapshots, safety)
	}

	record := model.NewRestoreRecord(
		newID("restore"),
		fmt.Sprintf("Restored to snapshot %s: %s", snapshotID, target.Message),
		current, timestamp(), snapshotID, sourceBranch, preRestoreID,
	)
	st.Branches[current].Snapshots = append(st.Branches[current].Snapshots, record)

	if err := s.store.Save(st); err != nil {
		return false, err
	}
	logs.Info("Restored to snapshot %s (source branch '%s', safe=%v)", snapshotID, sourceBranch, safe)
	return true, nil
}

// CreateStash pushes a save-point onto the global stash stack, tagged
// with the current branch.
func (s *TimelineService) CreateStash(message string) (string, error) {
	st, err := s.store.Load()
	if err != nil {
		return "", err
	}
	if message == "" {
		message = "Stashed changes"
	}

	id := newID("stash")
	st.Stashes = append(st.Stashes, model.Stash{
		ID:        id,
		Message:   message,
		Timestamp: timestamp(),
		Branch:    s.store.CurrentBranch(),
		Type:      "stash",
	})

	if err := s.store.Save(st); err != nil {
		return "", err
	}
	logs.Info("Created stash %s", id)
	return id, nil
}

// ListStashes returns the stash stack, oldest first.
func (s *TimelineService) ListStashes() ([]model.Stash, error) {
	st, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Stash, len(st.Stashes))
	copy(out, st.Stashes)
	return out, nil
}

// ApplyStash records the application of a stash on the current branch.
// With an empty id the most recently pushed stash is used. With pop, the
// stash is additionally removed from the stack.
func (s *TimelineService) ApplyStash(stashID string, pop bool) (bool, error) {
	st, err := s.store.Load()
	if err != nil {
		return false, err
	}
	if len(st.Stashes) == 0 {
		return false, nil
	}

	idx := len(st.Stashes) - 1
	if stashID != "" {
		idx = findStash(st.Stashes, stashID)
		if idx < 0 {
			return false, nil
		}
	}
	stash := st.Stashes[idx]

	current := s.store.CurrentBranch()
	ensureBranch(st, current)

	record := model.NewStashApplyRecord(
		newID("stash_apply"),
		fmt.Sprintf("Applied stash %s: %s", stash.ID, stash.Message),
		current, timestamp(), stash.ID,
	)
	st.Branches[current].Snapshots = append(st.Branches[current].Snapshots, record)

	if pop {
		st.Stashes = append(st.Stashes[:idx], st.Stashes[idx+1:]...)
	}

	if err := s.store.Save(st); err != nil {
		return false, err
	}
	logs.Info("Applied stash %s (pop=%v)", stash.ID, pop)
	return true, nil
}

// DropStash removes a stash (most recent when id is empty) without
// recording anything on the branch.
func (s *TimelineService) DropStash(stashID string) (bool, error) {
	st, err := s.store.Load()
	if err != nil {
		return false, err
	}
	if len(st.Stashes) == 0 {
		return false, nil
	}

	idx := len(st.Stashes) - 1
	if stashID != "" {
		idx = findStash(st.Stashes, stashID)
		if idx < 0 {
			return false, nil
		}
	}
	dropped := st.Stashes[idx].ID
	st.Stashes = append(st.Stashes[:idx], st.Stashes[idx+1:]...)

	if err := s.store.Save(st); err != nil {
		return false, err
	}
	logs.Info("Dropped stash %s", dropped)
	return true, nil
}

// SnapshotInfo finds a snapshot anywhere in the store and returns it
// annotated with its owning branch, or nil when unknown.
func (s *TimelineService) SnapshotInfo(snapshotID string) (*model.Snapshot, error) {
	st, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	snap, branch := findSnapshot(st, snapshotID)
	if snap == nil {
		return nil, nil
	}
	out := *snap
	out.Branch = branch
	return &out, nil
}

func ensureBranch(st *model.TimelineState, name string) {
	if _, ok := st.Branches[name]; ok {
		return
	}
	st.Branches[name] = &model.Branch{
		Created:     timestamp(),
		Description: fmt.Sprintf("Branch %s", name),
		Snapshots:   []model.Snapshot{},
	}
}

func findSnapshot(st *model.TimelineState, id string) (*model.Snapshot, string) {
	for branchName, b := range st.Branches {
		for i := range b.Snapshots {
			if b.Snapshots[i].ID == id {
				return &b.Snapshots[i], branchName
			}
		}
	}
	return nil, ""
}

func findStash(stashes []model.Stash, id string) int {
	for i, s := range stashes {
		if s.ID == id {
			return i
		}
	}
	return -1
}
