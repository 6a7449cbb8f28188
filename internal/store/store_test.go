package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewind/internal/model"
)

func TestLoadInitializesMissingTimeline(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/timeline")

	st, err := s.Load()
	require.NoError(t, err)
	require.Contains(t, st.Branches, "main")
	assert.Equal(t, "main", st.CurrentBranch)
	assert.Empty(t, st.Branches["main"].Snapshots)
	assert.Empty(t, st.Stashes)

	// Both the document and the mirror are persisted on first use.
	exists, err := afero.Exists(fs, filepath.Join("/timeline", TimelineFileName))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(fs, filepath.Join("/timeline", CurrentBranchFileName))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLoadCorruptTimeline(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/timeline")

	garbage := []byte("{not json at all")
	require.NoError(t, afero.WriteFile(fs, filepath.Join("/timeline", TimelineFileName), garbage, 0o644))

	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))

	// The corrupt bytes must survive for the user to recover from.
	content, readErr := afero.ReadFile(fs, filepath.Join("/timeline", TimelineFileName))
	require.NoError(t, readErr)
	assert.Equal(t, garbage, content)
}

func TestLoadIOFailureIsNotCorruption(t *testing.T) {
	// A read-only filesystem fails the first-use initialization write.
	// That failure must not be reported as corruption.
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	s := New(fs, "/timeline")

	_, err := s.Load()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCorrupt))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/timeline")

	st := model.NewTimelineState("2026-01-02T15:04:05Z")
	st.Branches["feature"] = &model.Branch{
		Created:     "2026-01-02T15:04:06Z",
		Description: "experimental",
		Parent:      "main",
		Snapshots: []model.Snapshot{
			model.NewSnapshot("snap_1", "first", "feature", "2026-01-02T15:04:07Z", false),
		},
	}
	st.Stashes = []model.Stash{
		{ID: "stash_1", Message: "wip", Timestamp: "2026-01-02T15:04:08Z", Branch: "main", Type: "stash"},
	}

	require.NoError(t, s.Save(st))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, st, loaded)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/timeline")

	require.NoError(t, s.Save(model.NewTimelineState("2026-01-02T15:04:05Z")))

	exists, err := afero.Exists(fs, filepath.Join("/timeline", TimelineFileName+".tmp"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCurrentBranchMirror(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/timeline")

	// Missing mirror falls back to main.
	assert.Equal(t, "main", s.CurrentBranch())

	require.NoError(t, s.WriteCurrentBranch("feature"))
	assert.Equal(t, "feature", s.CurrentBranch())

	// Whitespace-only content also falls back.
	require.NoError(t, afero.WriteFile(fs, filepath.Join("/timeline", CurrentBranchFileName), []byte("  \n"), 0o644))
	assert.Equal(t, "main", s.CurrentBranch())
}
