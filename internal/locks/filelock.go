package locks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"rewind/internal/logs"
)

// ErrAlreadyLocked indicates another rewind process holds the lock file.
var ErrAlreadyLocked = errors.New("another rewind process is already running against this timeline")

// LockFileName lives inside the timeline directory so each storage root
// has its own lock.
const LockFileName = ".rewind.lock"

// FileLock serializes mutating operations across processes with an
// advisory flock on a PID-stamped lock file. Without it, two concurrent
// CLI invocations would interleave their read-modify-write cycles and the
// last writer would silently win.
type FileLock struct {
	path     string
	fd       *os.File
	acquired bool
}

// NewFileLock returns an unacquired lock for the given timeline directory.
func NewFileLock(dir string) *FileLock {
	return &FileLock{path: filepath.Join(dir, LockFileName)}
}

// Acquire takes the lock, or fails with ErrAlreadyLocked when a live
// process holds it. A lock file left behind by a dead process is taken
// over.
func (l *FileLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	fd, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open lock file %s: %w", l.path, err)
	}
	l.fd = fd

	if err := syscall.Flock(int(fd.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		// Older Unix systems report EAGAIN or EWOULDBLOCK for a held
		// lock; treat them the same.
		if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
			pid := l.readPid()
			l.close()
			if pid > 0 {
				return fmt.Errorf("%w (pid %d)", ErrAlreadyLocked, pid)
			}
			return ErrAlreadyLocked
		}
		l.close()
		return fmt.Errorf("failed to lock %s: %w", l.path, err)
	}

	if err := l.writePid(); err != nil {
		logs.Warn("Failed to record PID in lock file: %v", err)
	}
	l.acquired = true
	logs.Debug("Acquired lock file %s", l.path)
	return nil
}

// Release drops the lock and removes the lock file.
func (l *FileLock) Release() error {
	if !l.acquired {
		l.close()
		return nil
	}
	l.acquired = false
	if err := syscall.Flock(int(l.fd.Fd()), syscall.LOCK_UN); err != nil {
		l.close()
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	l.close()
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", l.path, err)
	}
	logs.Debug("Released lock file %s", l.path)
	return nil
}

func (l *FileLock) writePid() error {
	if err := l.fd.Truncate(0); err != nil {
		return err
	}
	if _, err := l.fd.Seek(0, 0); err != nil {
		return err
	}
	_, err := fmt.Fprintf(l.fd, "%d\n", os.Getpid())
	return err
}

func (l *FileLock) readPid() int {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0
	}
	return pid
}

func (l *FileLock) close() {
	if l.fd != nil {
		l.fd.Close()
		l.fd = nil
	}
}
