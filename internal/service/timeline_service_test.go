package service

import (
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewind/internal/model"
	"rewind/internal/store"
)

func newTestService(t *testing.T) (*TimelineService, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New(store.New(fs, "/timeline")), fs
}

func TestFreshTimelineDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	assert.Equal(t, "main", svc.CurrentBranch())

	branches, err := svc.ListBranches()
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "main", branches[0].Name)
	assert.True(t, branches[0].Current)
	assert.Equal(t, 0, branches[0].Snapshots)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	stashes, err := svc.ListStashes()
	require.NoError(t, err)
	assert.Empty(t, stashes)
}

func TestCreateBranchDuplicateFails(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.CreateBranch("main", "dup", "")
	require.NoError(t, err)
	assert.False(t, ok)

	branches, err := svc.ListBranches()
	require.NoError(t, err)
	assert.Len(t, branches, 1)
}

func TestCreateBranchCopiesHistory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSnapshot("before fork", false)
	require.NoError(t, err)

	ok, err := svc.CreateBranch("feature", "fork of main", "main")
	require.NoError(t, err)
	require.True(t, ok)

	// Forking must not switch.
	assert.Equal(t, "main", svc.CurrentBranch())

	mainSnaps, err := svc.ListSnapshots("main")
	require.NoError(t, err)
	featureSnaps, err := svc.ListSnapshots("feature")
	require.NoError(t, err)
	assert.Equal(t, mainSnaps, featureSnaps)

	// History is copied, not shared: later snapshots on main must not
	// leak into the fork.
	_, err = svc.CreateSnapshot("after fork", false)
	require.NoError(t, err)

	featureSnaps, err = svc.ListSnapshots("feature")
	require.NoError(t, err)
	assert.Len(t, featureSnaps, 1)
}

func TestCreateBranchRecordsParent(t *testing.T) {
	svc, fs := newTestService(t)

	ok, err := svc.CreateBranch("feature", "a fork", "")
	require.NoError(t, err)
	require.True(t, ok)

	st, err := store.New(fs, "/timeline").Load()
	require.NoError(t, err)
	require.Contains(t, st.Branches, "feature")
	assert.Equal(t, "main", st.Branches["feature"].Parent)
	assert.Equal(t, "a fork", st.Branches["feature"].Description)
	assert.Empty(t, st.Branches["main"].Parent)
}

func TestSwitchBranch(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.SwitchBranch("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "main", svc.CurrentBranch())

	_, err = svc.CreateBranch("feature", "", "")
	require.NoError(t, err)

	ok, err = svc.SwitchBranch("feature")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "feature", svc.CurrentBranch())
}

func TestCreateSnapshot(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.CreateSnapshot("install editor", false)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^snap_\d+$`), id)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, id, snapshots[0].ID)
	assert.Equal(t, "install editor", snapshots[0].Message)
	assert.False(t, snapshots[0].Auto)
	assert.Equal(t, "main", snapshots[0].Branch)
	assert.Equal(t, model.KindPlain, snapshots[0].Kind())
}

func TestSnapshotIDsUniqueWithinSecond(t *testing.T) {
	svc, _ := newTestService(t)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id, err := svc.CreateSnapshot("burst", false)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestRestoreSnapshotSafe(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.CreateSnapshot("good state", false)
	require.NoError(t, err)

	ok, err := svc.RestoreSnapshot(id, true)
	require.NoError(t, err)
	require.True(t, ok)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	// Original snapshot + safety snapshot + restore record.
	require.Len(t, snapshots, 3)

	safety := snapshots[1]
	assert.True(t, safety.Auto)
	assert.Equal(t, model.KindPlain, safety.Kind())

	record := snapshots[2]
	assert.Equal(t, model.KindRestore, record.Kind())
	assert.Equal(t, id, record.RestoredFrom)
	assert.Equal(t, "main", record.SourceBranch)
	assert.Equal(t, safety.ID, record.PreRestoreSnapshot)
}

func TestRestoreSnapshotUnsafe(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.CreateSnapshot("good state", false)
	require.NoError(t, err)

	ok, err := svc.RestoreSnapshot(id, false)
	require.NoError(t, err)
	require.True(t, ok)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	record := snapshots[1]
	assert.Equal(t, model.KindRestore, record.Kind())
	assert.Empty(t, record.PreRestoreSnapshot)
}

func TestRestoreSnapshotUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.RestoreSnapshot("bogus", true)
	require.NoError(t, err)
	assert.False(t, ok)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestRestoreAcrossBranchesLandsOnCurrent(t *testing.T) {
	svc, _ := newTestService(t)

	// Fork while main is still empty so the snapshot created below lives
	// on main only.
	_, err := svc.CreateBranch("feature", "", "")
	require.NoError(t, err)

	id, err := svc.CreateSnapshot("on main", false)
	require.NoError(t, err)

	_, err = svc.SwitchBranch("feature")
	require.NoError(t, err)

	ok, err := svc.RestoreSnapshot(id, false)
	require.NoError(t, err)
	require.True(t, ok)

	// The record lands on the branch we are on, while SourceBranch keeps
	// pointing at the snapshot's owner.
	featureSnaps, err := svc.ListSnapshots("feature")
	require.NoError(t, err)
	record := featureSnaps[len(featureSnaps)-1]
	assert.Equal(t, model.KindRestore, record.Kind())
	assert.Equal(t, "feature", record.Branch)
	assert.Equal(t, "main", record.SourceBranch)

	mainSnaps, err := svc.ListSnapshots("main")
	require.NoError(t, err)
	assert.Len(t, mainSnaps, 1)
}

func TestStashStackLIFO(t *testing.T) {
	svc, _ := newTestService(t)

	idA, err := svc.CreateStash("stash A")
	require.NoError(t, err)
	idB, err := svc.CreateStash("stash B")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^stash_\d+$`), idA)

	ok, err := svc.DropStash("")
	require.NoError(t, err)
	require.True(t, ok)

	stashes, err := svc.ListStashes()
	require.NoError(t, err)
	require.Len(t, stashes, 1)
	assert.Equal(t, idA, stashes[0].ID)
	assert.NotEqual(t, idB, stashes[0].ID)
}

func TestApplyStashPop(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.CreateStash("work in progress")
	require.NoError(t, err)

	ok, err := svc.ApplyStash("", true)
	require.NoError(t, err)
	require.True(t, ok)

	stashes, err := svc.ListStashes()
	require.NoError(t, err)
	assert.Empty(t, stashes)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, model.KindStashApply, snapshots[0].Kind())
	assert.Equal(t, id, snapshots[0].StashApplied)
}

func TestApplyStashKeep(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateStash("keep me")
	require.NoError(t, err)

	ok, err := svc.ApplyStash("", false)
	require.NoError(t, err)
	require.True(t, ok)

	stashes, err := svc.ListStashes()
	require.NoError(t, err)
	assert.Len(t, stashes, 1)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestApplyStashEmptyStack(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.ApplyStash("", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyStashUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateStash("present")
	require.NoError(t, err)

	ok, err := svc.ApplyStash("stash_0", false)
	require.NoError(t, err)
	assert.False(t, ok)

	snapshots, err := svc.ListSnapshots("")
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestDropStashByID(t *testing.T) {
	svc, _ := newTestService(t)

	idA, err := svc.CreateStash("stash A")
	require.NoError(t, err)
	idB, err := svc.CreateStash("stash B")
	require.NoError(t, err)

	ok, err := svc.DropStash(idA)
	require.NoError(t, err)
	require.True(t, ok)

	stashes, err := svc.ListStashes()
	require.NoError(t, err)
	require.Len(t, stashes, 1)
	assert.Equal(t, idB, stashes[0].ID)

	ok, err = svc.DropStash("stash_0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDropStashEmptyStack(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.DropStash("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotInfo(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.CreateSnapshot("findable", false)
	require.NoError(t, err)

	_, err = svc.CreateBranch("feature", "", "")
	require.NoError(t, err)

	snap, err := svc.SnapshotInfo(id)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, "findable", snap.Message)
	assert.Contains(t, []string{"main", "feature"}, snap.Branch)

	missing, err := svc.SnapshotInfo("snap_0")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEndToEndScenario(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSnapshot("s1", false)
	require.NoError(t, err)

	ok, err := svc.CreateBranch("feature", "", "")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.SwitchBranch("feature")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.CreateSnapshot("s2", false)
	require.NoError(t, err)

	mainSnaps, err := svc.ListSnapshots("main")
	require.NoError(t, err)
	assert.Len(t, mainSnaps, 1)

	featureSnaps, err := svc.ListSnapshots("feature")
	require.NoError(t, err)
	require.Len(t, featureSnaps, 2)
	assert.Equal(t, "s1", featureSnaps[0].Message)
	assert.Equal(t, "s2", featureSnaps[1].Message)
}

func TestPersistenceRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	svc := New(store.New(fs, "/timeline"))

	_, err := svc.CreateSnapshot("s1", false)
	require.NoError(t, err)
	_, err = svc.CreateBranch("feature", "forked", "")
	require.NoError(t, err)
	_, err = svc.SwitchBranch("feature")
	require.NoError(t, err)
	_, err = svc.CreateSnapshot("s2", false)
	require.NoError(t, err)
	_, err = svc.CreateStash("wip")
	require.NoError(t, err)

	// Reopen against the same storage location.
	reopened := New(store.New(fs, "/timeline"))

	assert.Equal(t, "feature", reopened.CurrentBranch())

	before, err := svc.ListBranches()
	require.NoError(t, err)
	after, err := reopened.ListBranches()
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)

	snapsBefore, err := svc.ListSnapshots("feature")
	require.NoError(t, err)
	snapsAfter, err := reopened.ListSnapshots("feature")
	require.NoError(t, err)
	assert.Equal(t, snapsBefore, snapsAfter)

	stashesBefore, err := svc.ListStashes()
	require.NoError(t, err)
	stashesAfter, err := reopened.ListStashes()
	require.NoError(t, err)
	assert.Equal(t, stashesBefore, stashesAfter)
}
