package locks

import (
	"rewind/internal/logs"
	"sync"
	"time"
)

// We maintain a single lock to protect mutating operations on the timeline.
// Concurrent rewind processes are handled separately by the lock file.

var timelineLock sync.Mutex

func LockTimeline() {
	logs.Debug("Acquiring timeline lock...")
	start := time.Now()
	timelineLock.Lock()
	logs.Debug("Timeline lock acquired (waited %v).", time.Since(start))
}

func UnlockTimeline() {
	timelineLock.Unlock()
	logs.Debug("Timeline lock released.")
}
