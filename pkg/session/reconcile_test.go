package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileSortsAuthoritativeList(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]Session{
		testSession("s1", at(1, 0), "first"),
		testSession("s2", at(2, 0), "second"),
	})

	st := store.Snapshot()
	assert.Equal(t, "s2", st.Sessions[0].ID)
	assert.Equal(t, "s1", st.Sessions[1].ID)
	assertInvariants(t, st)
}

func TestReconcileEmptyListClearsSelection(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "hello", at(1, 0)))

	store.ReplaceAll(nil)

	st := store.Snapshot()
	assert.Empty(t, st.Sessions)
	assert.Equal(t, "", st.CurrentSessionID)
	assert.Nil(t, st.Current)
}

func TestReconcileKeepsSurvivingSelection(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "local", at(1, 0)))
	store.ApplyResult(testResult("s2", "local too", at(2, 0)))
	store.SetCurrentSession("s1")

	store.ReplaceAll([]Session{
		testSession("s1", at(1, 0), "server view"),
		testSession("s2", at(2, 0), "server view"),
		testSession("s3", at(3, 0), "brand new"),
	})

	st := store.Snapshot()
	assert.Equal(t, "s1", st.CurrentSessionID)
	assert.NotNil(t, st.Current)
	assert.Equal(t, "s1", st.Current.SessionID)
	assert.Equal(t, "server view", st.Current.Prompt, "projection rebuilt from server content")
	assertInvariants(t, st)
}

func TestReconcileFallsBackWhenSelectionVanishes(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("gone", "local only", at(9, 0)))

	store.ReplaceAll([]Session{
		testSession("s1", at(1, 0), "older"),
		testSession("s2", at(2, 0), "newer"),
	})

	st := store.Snapshot()
	assert.Equal(t, "s2", st.CurrentSessionID)
	assert.Equal(t, "newer", st.Current.Prompt)
	assertInvariants(t, st)
}

func TestReconcileIsIdempotent(t *testing.T) {
	authoritative := []Session{
		testSession("s1", at(1, 0), "one"),
		testSession("s2", at(2, 0), "two"),
		testSession("s3", at(2, 0), "tied with s2"),
	}

	store := NewStore()
	store.ApplyResult(testResult("s2", "local", at(5, 0)))

	store.ReplaceAll(authoritative)
	first := store.Snapshot()

	store.ReplaceAll(authoritative)
	second := store.Snapshot()

	assert.Equal(t, first, second)
	assertInvariants(t, second)
}

func TestReconcileDoesNotAliasCallerSlice(t *testing.T) {
	authoritative := []Session{testSession("s1", at(1, 0), "one")}

	store := NewStore()
	store.ReplaceAll(authoritative)

	authoritative[0].ID = "tampered"
	authoritative[0].Messages[0].Prompt = "tampered"

	st := store.Snapshot()
	assert.Equal(t, "s1", st.Sessions[0].ID)
	assert.Equal(t, "one", st.Sessions[0].Messages[0].Prompt)
}

// A refresh whose snapshot predates a just-applied result transiently drops
// the new message. That window is the documented trade; the next refresh
// with a current snapshot restores the full history.
func TestReconcileStaleSnapshotWindow(t *testing.T) {
	store := NewStore()
	staleList := []Session{testSession("s1", at(1, 0), "old turn")}

	store.ReplaceAll(staleList)
	store.ApplyResult(testResult("s1", "new turn", at(2, 0)))
	store.ReplaceAll(staleList)

	st := store.Snapshot()
	assert.Len(t, st.Sessions[0].Messages, 1)
	assert.Equal(t, "old turn", st.Sessions[0].Messages[0].Prompt)

	freshList := []Session{testSession("s1", at(2, 0), "old turn", "new turn")}
	store.ReplaceAll(freshList)

	st = store.Snapshot()
	assert.Len(t, st.Sessions[0].Messages, 2)
	assertInvariants(t, st)
}
