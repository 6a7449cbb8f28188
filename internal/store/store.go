package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"rewind/internal/logs"
	"rewind/internal/model"
)

const (
	// TimelineFileName holds the whole timeline document, rewritten
	// wholesale on every mutation.
	TimelineFileName = "timeline.json"

	// CurrentBranchFileName mirrors the current_branch field of the
	// document as a plain one-line file, for quick external reads.
	CurrentBranchFileName = "current_branch"
)

// ErrCorrupt marks a timeline document that exists but cannot be parsed.
// Unlike a missing document, a corrupt one is never silently replaced;
// the bytes stay on disk for the user to inspect or restore from backup.
var ErrCorrupt = errors.New("timeline file is corrupt")

// Store owns the persisted timeline document under a single directory.
// It performs no in-memory caching: every Load reads the file, every Save
// rewrites it via a temp file and rename.
type Store struct {
	fs  afero.Fs
	dir string
}

// New returns a Store rooted at dir on the given filesystem.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the storage root directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) timelinePath() string {
	return filepath.Join(s.dir, TimelineFileName)
}

func (s *Store) currentBranchPath() string {
	return filepath.Join(s.dir, CurrentBranchFileName)
}

// Load reads the timeline document. A missing document initializes and
// persists the default single-main state; an unparsable one returns
// ErrCorrupt without touching the file.
func (s *Store) Load() (*model.TimelineState, error) {
	p := s.timelinePath()
	content, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			logs.Info("No timeline file at %s. Initializing fresh timeline.", p)
			return s.initTimeline()
		}
		return nil, fmt.Errorf("failed to read timeline file %s: %w", p, err)
	}

	var st model.TimelineState
	if err := json.Unmarshal(content, &st); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, p, err)
	}
	if st.Branches == nil {
		st.Branches = map[string]*model.Branch{}
	}
	return &st, nil
}

// Save writes the full document. The write goes to a temp file first and
// is renamed into place, so readers never observe a partial document.
func (s *Store) Save(st *model.TimelineState) error {
	out, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create timeline directory %s: %w", s.dir, err)
	}

	p := s.timelinePath()
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, out, 0o644); err != nil {
		return fmt.Errorf("failed to write timeline file: %w", err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		return fmt.Errorf("failed to replace timeline file %s: %w", p, err)
	}
	return nil
}

// CurrentBranch reads the mirror file. A missing or unreadable mirror is
// not an error; the default branch is assumed.
func (s *Store) CurrentBranch() string {
	content, err := afero.ReadFile(s.fs, s.currentBranchPath())
	if err != nil {
		return model.DefaultBranch
	}
	name := strings.TrimSpace(string(content))
	if name == "" {
		return model.DefaultBranch
	}
	return name
}

// WriteCurrentBranch updates the mirror file. The document is the source
// of truth; the mirror is convenience only, so callers may treat failures
// as non-fatal.
func (s *Store) WriteCurrentBranch(name string) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create timeline directory %s: %w", s.dir, err)
	}
	if err := afero.WriteFile(s.fs, s.currentBranchPath(), []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write current branch file: %w", err)
	}
	return nil
}

func (s *Store) initTimeline() (*model.TimelineState, error) {
	st := model.NewTimelineState(time.Now().Format(time.RFC3339))
	if err := s.Save(st); err != nil {
		return nil, err
	}
	if err := s.WriteCurrentBranch(model.DefaultBranch); err != nil {
		logs.Warn("Failed to write current branch mirror: %v", err)
	}
	return st, nil
}
