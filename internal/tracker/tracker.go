// Package tracker persists run coordination state on the filesystem: the
// exclusive run lock, the current run state, a bounded run history, and
// cumulative totals. All JSON files are written atomically (write to a temp
// file, fsync, rename) so readers never observe a partial write.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateDirName is the directory under the install root holding tracker state.
const StateDirName = ".cronguard"

// LockFileName is the default lock marker name at the install root.
const LockFileName = ".run_lock"

type Writer struct {
	Root         string
	LockPath     string
	RunStatePath string
	HistoryPath  string
	TotalsPath   string
}

// NewWriter creates a tracker rooted at the install directory. The lock
// marker lives directly under the root; everything else lives in the state
// directory, created on first write.
func NewWriter(root string) *Writer {
	state := filepath.Join(root, StateDirName)
	return &Writer{
		Root:         root,
		LockPath:     filepath.Join(root, LockFileName),
		RunStatePath: filepath.Join(state, "run_state.json"),
		HistoryPath:  filepath.Join(state, "history.json"),
		TotalsPath:   filepath.Join(state, "totals.json"),
	}
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
