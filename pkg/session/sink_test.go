package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkPersistsEveryCommit(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, nil)

	store := NewStore()
	store.Subscribe(sink.Persist)
	store.ApplyResult(testResult("s1", "hello", at(1, 10)))

	st, ok := Sanitize(sink.Load())
	assert.True(t, ok)
	assert.Len(t, st.Sessions, 1)
	assert.Equal(t, "s1", st.CurrentSessionID)
	assert.Equal(t, "hello", st.Current.Prompt)
}

func TestSinkSeedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, nil)

	first := NewStore()
	first.Subscribe(sink.Persist)
	first.ApplyResult(testResult("s1", "one", at(1, 10)))
	first.ApplyResult(testResult("s2", "two", at(2, 10)))
	first.SetCurrentSession("s1")

	// A later process seeds from the same file and sees the same state.
	second := NewStore()
	second.Seed(sink.Load())

	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestSinkLoadMissingFile(t *testing.T) {
	sink := NewFileSink(t.TempDir(), nil)

	assert.Nil(t, sink.Load())
}

func TestSinkWriteFailureNeverSurfaces(t *testing.T) {
	// Point the sink at a path whose parent is a regular file, so every
	// write fails. The mutation must survive untouched.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	assert.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))

	sink := NewFileSink(filepath.Join(blocked, "state"), nil)
	store := NewStore()
	store.Subscribe(sink.Persist)

	assert.NotPanics(t, func() {
		store.ApplyResult(testResult("s1", "hello", at(1, 10)))
	})

	st := store.Snapshot()
	assert.Len(t, st.Sessions, 1)
	assert.Equal(t, "s1", st.CurrentSessionID)
}

func TestSinkIgnoresPreviousSchemaKeys(t *testing.T) {
	// A blob written by an older build under the previous key must never be
	// read back; the versioned filename is the schema gate.
	dir := t.TempDir()
	old := filepath.Join(dir, "comparison-state-v1.json")
	assert.NoError(t, os.WriteFile(old, []byte(`{"sessions": [{"id": "legacy"}]}`), 0o600))

	sink := NewFileSink(dir, nil)
	assert.Nil(t, sink.Load())

	store := NewStore()
	store.Seed(sink.Load())
	assert.Empty(t, store.Snapshot().Sessions)
}

func TestSinkCorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, nil)
	assert.NoError(t, os.WriteFile(sink.Path(), []byte(`{"sessions": [{"ses`), 0o600))

	store := NewStore()
	store.Seed(sink.Load())

	st := store.Snapshot()
	assert.Empty(t, st.Sessions)
	assert.Equal(t, "", st.CurrentSessionID)
	assert.Nil(t, st.Current)
}
