package session

import (
	"os"
	"path/filepath"

	"rag-compare-be/internal/pkg/logger"
)

// StateFileName carries the schema version in its name. Changing the record
// shape means bumping the suffix, so an incompatible blob written by an older
// build is simply never read back; the sanitizer cannot tell schema versions
// apart from shape alone.
const StateFileName = "comparison-state-v2.json"

// FileSink persists every committed state to one well-known file. It is
// best-effort by contract: a failed write is logged and swallowed, never
// surfaced, and never rolls back the in-memory mutation that triggered it.
type FileSink struct {
	dir string
	log logger.ILogger
}

func NewFileSink(dir string, log logger.ILogger) *FileSink {
	return &FileSink{dir: dir, log: log}
}

// Path returns the versioned state file location.
func (f *FileSink) Path() string {
	return filepath.Join(f.dir, StateFileName)
}

// Load reads the persisted blob for the startup Seed. A missing or unreadable
// file returns nil, which the sanitizer treats as no usable state.
func (f *FileSink) Load() []byte {
	raw, err := os.ReadFile(f.Path())
	if err != nil {
		return nil
	}
	return raw
}

// Persist is the commit observer. The write is atomic (temp file + rename)
// so a crash mid-write can never leave a truncated blob for the next start.
func (f *FileSink) Persist(st State) {
	raw, err := Encode(st)
	if err != nil {
		f.warn("failed to encode comparison state", err)
		return
	}

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		f.warn("failed to create state directory", err)
		return
	}

	tmp, err := os.CreateTemp(f.dir, StateFileName+".tmp-*")
	if err != nil {
		f.warn("failed to create temp state file", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		f.warn("failed to write state file", err)
		return
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		f.warn("failed to sync state file", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		f.warn("failed to close state file", err)
		return
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		os.Remove(tmpName)
		f.warn("failed to replace state file", err)
		return
	}
}

func (f *FileSink) warn(message string, err error) {
	if f.log == nil {
		return
	}
	f.log.Warn("session_sink", message, map[string]interface{}{
		"error": err.Error(),
		"path":  f.Path(),
	})
}
