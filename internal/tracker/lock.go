package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Lock describes the holder of the run lock. It is serialized into the lock
// file so other invocations (and `cronguard status`) can identify the holder
// and detect a dead one.
type Lock struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	RunID     string    `json:"run_id"`
}

// ErrLockHeld means another coordinator invocation is currently running.
// Callers treat this as a benign skip, not a failure.
var ErrLockHeld = errors.New("run lock is held")

// AcquireLock atomically creates the lock marker. O_EXCL creation is the
// mutual-exclusion primitive: two concurrent callers cannot both succeed.
// If the marker exists but its recorded holder is no longer alive, the stale
// marker is removed and acquisition retried once.
//
// On success it returns a release func that removes the marker; callers must
// register it (defer) immediately so it fires on every exit path.
func (w *Writer) AcquireLock(runID string) (func() error, error) {
	l := Lock{PID: os.Getpid(), StartedAt: time.Now().UTC(), RunID: runID}
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(w.LockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			existing, readErr := w.ReadLock()
			if readErr == nil && existing != nil && existing.PID > 0 && !pidAlive(existing.PID) {
				// Holder died without releasing. Reclaim and retry once.
				if reclaimErr := w.reclaimStale(existing); reclaimErr == nil {
					return w.AcquireLock(runID)
				}
			}
			if existing != nil {
				return nil, fmt.Errorf("%w by pid %d (run_id=%s)", ErrLockHeld, existing.PID, existing.RunID)
			}
			return nil, fmt.Errorf("%w (lock file exists)", ErrLockHeld)
		}
		return nil, err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(w.LockPath)
		return nil, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(w.LockPath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(w.LockPath)
		return nil, err
	}

	release := func() error {
		return os.Remove(w.LockPath)
	}
	return release, nil
}

// reclaimStale removes a dead holder's marker without racing other
// contenders. Renaming the marker aside is atomic, so only one contender
// can claim it; the claimed file is then checked against the holder we
// observed, and restored if it was replaced in the meantime (a slower
// contender must never delete a lock a faster one just re-acquired).
func (w *Writer) reclaimStale(observed *Lock) error {
	claimed := fmt.Sprintf("%s.stale.%d", w.LockPath, os.Getpid())
	if err := os.Rename(w.LockPath, claimed); err != nil {
		return err
	}

	b, err := os.ReadFile(claimed)
	if err == nil {
		var got Lock
		if json.Unmarshal(b, &got) == nil && got.PID == observed.PID && got.RunID == observed.RunID {
			return os.Remove(claimed)
		}
	}

	// The marker changed between observation and claim: it belongs to a
	// newer holder. Put it back.
	if renameErr := os.Rename(claimed, w.LockPath); renameErr != nil {
		os.Remove(claimed)
		return renameErr
	}
	return fmt.Errorf("lock marker changed during reclaim")
}

// ReadLock returns the current lock holder, or nil if no lock marker exists
// or it cannot be parsed.
func (w *Writer) ReadLock() (*Lock, error) {
	b, err := os.ReadFile(w.LockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var l Lock
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, nil
	}
	return &l, nil
}

// RemoveLock deletes the lock marker regardless of holder.
func (w *Writer) RemoveLock() error {
	err := os.Remove(w.LockPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// HolderAlive reports whether the lock's recorded pid is a live process.
func HolderAlive(l *Lock) bool {
	if l == nil || l.PID <= 0 {
		return false
	}
	return pidAlive(l.PID)
}

func pidAlive(pid int) bool {
	alive, err := process.PidExists(int32(pid))
	if err != nil {
		// Cannot tell; assume alive rather than steal a live lock.
		return true
	}
	return alive
}
