package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 {
	return &v
}

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func testResult(sessionID, prompt string, ts time.Time) Comparison {
	return Comparison{
		SessionID: sessionID,
		Prompt:    prompt,
		Timestamp: ts,
		Baseline:  ModeBlock{Answer: "baseline answer to " + prompt, LatencyMS: 420.5},
		RAG:       ModeBlock{Answer: "rag answer to " + prompt, LatencyMS: 910.2, Similarity: fptr(0.82)},
		Metrics: Metrics{
			BaselineLatencyMS:  420.5,
			RAGLatencyMS:       910.2,
			SemanticSimilarity: 0.82,
			CreatedAt:          ts,
			UpdatedAt:          ts,
		},
	}
}

func testSession(id string, updated time.Time, prompts ...string) Session {
	s := Session{
		ID:        id,
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
		Messages:  []Message{},
		Metrics: Metrics{
			CreatedAt: updated.Add(-time.Hour),
			UpdatedAt: updated,
		},
	}
	for _, p := range prompts {
		s.Messages = append(s.Messages, Message{
			Prompt:    p,
			Timestamp: updated,
			Baseline:  ModeBlock{Answer: "b: " + p, LatencyMS: 100},
			RAG:       ModeBlock{Answer: "r: " + p, LatencyMS: 200, Similarity: fptr(0.5)},
		})
	}
	return s
}

func assertInvariants(t *testing.T, st State) {
	t.Helper()

	if st.CurrentSessionID != "" {
		assert.NotNil(t, findSession(st.Sessions, st.CurrentSessionID),
			"current id %q must name a live session", st.CurrentSessionID)
	}
	assert.True(t, sessionsOrdered(st.Sessions), "sessions must stay newest-first")
	for _, s := range st.Sessions {
		assert.False(t, s.UpdatedAt.Before(s.CreatedAt), "session %s updated before created", s.ID)
		if n := len(s.Messages); n > 0 {
			assert.False(t, s.UpdatedAt.Before(s.Messages[n-1].Timestamp),
				"session %s updated before its last message", s.ID)
		}
	}
	if st.Current != nil {
		assert.NotNil(t, findSession(st.Sessions, st.Current.SessionID),
			"projection references session %q which does not exist", st.Current.SessionID)
	}
}

func TestStoreStartsEmpty(t *testing.T) {
	st := NewStore().Snapshot()

	assert.Empty(t, st.Sessions)
	assert.Equal(t, "", st.CurrentSessionID)
	assert.Nil(t, st.Current)
}

func TestSeedEmptyStorage(t *testing.T) {
	store := NewStore()
	store.Seed(nil)

	st := store.Snapshot()
	assert.NotNil(t, st.Sessions)
	assert.Empty(t, st.Sessions)
	assert.Equal(t, "", st.CurrentSessionID)
	assert.Nil(t, st.Current)
}

func TestApplyResultCreatesUnknownSession(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "hello", at(1, 10)))

	st := store.Snapshot()
	assert.Len(t, st.Sessions, 1)
	assert.Equal(t, "s1", st.Sessions[0].ID)
	assert.Len(t, st.Sessions[0].Messages, 1)
	assert.Equal(t, "hello", st.Sessions[0].Messages[0].Prompt)
	assert.Equal(t, "s1", st.CurrentSessionID)
	assertInvariants(t, st)
}

func TestApplyResultAppendsToKnownSession(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "first", at(1, 10)))
	store.ApplyResult(testResult("s1", "second", at(1, 11)))

	st := store.Snapshot()
	assert.Len(t, st.Sessions, 1)
	assert.Len(t, st.Sessions[0].Messages, 2)
	assert.Equal(t, "first", st.Sessions[0].Messages[0].Prompt)
	assert.Equal(t, "second", st.Sessions[0].Messages[1].Prompt)
	assert.Equal(t, at(1, 11), st.Sessions[0].UpdatedAt)
	assert.Equal(t, at(1, 11), st.Sessions[0].Metrics.UpdatedAt)
	assertInvariants(t, st)
}

func TestApplyResultResortsUpdatedSession(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.ApplyResult(testResult("s2", "two", at(2, 10)))
	store.ApplyResult(testResult("s1", "one again", at(3, 10)))

	st := store.Snapshot()
	assert.Equal(t, "s1", st.Sessions[0].ID)
	assert.Equal(t, "s2", st.Sessions[1].ID)
	assertInvariants(t, st)
}

func TestApplyResultProjectionIsResultVerbatim(t *testing.T) {
	store := NewStore()
	res := testResult("s1", "hello", at(1, 10))
	store.ApplyResult(res)

	st := store.Snapshot()
	assert.NotNil(t, st.Current)
	assert.Equal(t, res, *st.Current)
}

func TestApplyResultLastResolutionWinsForeground(t *testing.T) {
	// Two in-flight comparisons for different sessions resolve out of order;
	// whichever lands last owns the selection.
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.ApplyResult(testResult("s2", "two", at(1, 9)))

	st := store.Snapshot()
	assert.Equal(t, "s2", st.CurrentSessionID)
	assert.Equal(t, "s2", st.Current.SessionID)
	assertInvariants(t, st)
}

func TestSetCurrentSession(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.ApplyResult(testResult("s2", "two", at(2, 10)))

	t.Run("known id selects and projects", func(t *testing.T) {
		store.SetCurrentSession("s1")

		st := store.Snapshot()
		assert.Equal(t, "s1", st.CurrentSessionID)
		assert.NotNil(t, st.Current)
		assert.Equal(t, "s1", st.Current.SessionID)
		assert.Equal(t, "one", st.Current.Prompt)
		assertInvariants(t, st)
	})

	t.Run("empty id clears selection", func(t *testing.T) {
		store.SetCurrentSession("")

		st := store.Snapshot()
		assert.Equal(t, "", st.CurrentSessionID)
		assert.Nil(t, st.Current)
		assertInvariants(t, st)
	})

	t.Run("unknown id behaves as clearing", func(t *testing.T) {
		store.SetCurrentSession("s2")
		store.SetCurrentSession("ghost")

		st := store.Snapshot()
		assert.Equal(t, "", st.CurrentSessionID)
		assert.Nil(t, st.Current)
		assertInvariants(t, st)
	})
}

func TestDeleteCurrentSessionPromotesMostRecent(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.ApplyResult(testResult("s2", "two", at(2, 10)))

	store.DeleteSession("s2")

	st := store.Snapshot()
	assert.Len(t, st.Sessions, 1)
	assert.Equal(t, "s1", st.CurrentSessionID)
	assert.NotNil(t, st.Current)
	assert.Equal(t, "s1", st.Current.SessionID)
	assert.Equal(t, "one", st.Current.Prompt)
	assertInvariants(t, st)
}

func TestDeleteLastSessionClearsEverything(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))

	store.DeleteSession("s1")

	st := store.Snapshot()
	assert.Empty(t, st.Sessions)
	assert.Equal(t, "", st.CurrentSessionID)
	assert.Nil(t, st.Current)
	assertInvariants(t, st)
}

func TestDeleteNonCurrentSessionKeepsSelection(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.ApplyResult(testResult("s2", "two", at(2, 10)))
	store.SetCurrentSession("s2")

	store.DeleteSession("s1")

	st := store.Snapshot()
	assert.Equal(t, "s2", st.CurrentSessionID)
	assert.NotNil(t, st.Current)
	assert.Equal(t, "s2", st.Current.SessionID)
	assertInvariants(t, st)
}

func TestDeleteProjectedNonCurrentSessionClearsProjectionOnly(t *testing.T) {
	// No public operation leaves the projection pointing away from the
	// current session, so force that malformed state directly and verify
	// DeleteSession still refuses to let a stale projection survive.
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.ApplyResult(testResult("s2", "two", at(2, 10)))
	store.SetCurrentSession("s1")

	store.mu.Lock()
	store.state.Current = projectionFor(findSession(store.state.Sessions, "s2"))
	store.mu.Unlock()

	store.DeleteSession("s2")

	st := store.Snapshot()
	assert.Equal(t, "s1", st.CurrentSessionID)
	assert.Nil(t, st.Current)
	assertInvariants(t, st)
}

func TestDeleteUnknownSessionIsNoop(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))

	var commits int
	store.Subscribe(func(State) { commits++ })
	store.DeleteSession("ghost")

	st := store.Snapshot()
	assert.Len(t, st.Sessions, 1)
	assert.Equal(t, "s1", st.CurrentSessionID)
	assert.Equal(t, 0, commits)
}

func TestClearAll(t *testing.T) {
	store := NewStore()
	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.ApplyResult(testResult("s2", "two", at(2, 10)))

	store.ClearAll()

	st := store.Snapshot()
	assert.Empty(t, st.Sessions)
	assert.Equal(t, "", st.CurrentSessionID)
	assert.Nil(t, st.Current)
	assertInvariants(t, st)
}

func TestObserverSeesEveryCommit(t *testing.T) {
	store := NewStore()

	var seen []string
	store.Subscribe(func(st State) {
		seen = append(seen, st.CurrentSessionID)
	})

	store.ApplyResult(testResult("s1", "one", at(1, 10)))
	store.SetCurrentSession("")
	store.ClearAll()

	assert.Equal(t, []string{"s1", "", ""}, seen)
}

func TestObserverSnapshotDoesNotAliasStore(t *testing.T) {
	store := NewStore()

	var grabbed State
	store.Subscribe(func(st State) { grabbed = st })
	store.ApplyResult(testResult("s1", "one", at(1, 10)))

	grabbed.Sessions[0].ID = "tampered"
	grabbed.Sessions[0].Messages[0].Prompt = "tampered"

	st := store.Snapshot()
	assert.Equal(t, "s1", st.Sessions[0].ID)
	assert.Equal(t, "one", st.Sessions[0].Messages[0].Prompt)
}

func TestInvariantsHoldAcrossOperationSequences(t *testing.T) {
	store := NewStore()
	steps := []func(){
		func() { store.ApplyResult(testResult("s1", "a", at(1, 10))) },
		func() { store.ApplyResult(testResult("s2", "b", at(2, 10))) },
		func() { store.SetCurrentSession("s1") },
		func() { store.ApplyResult(testResult("s3", "c", at(3, 10))) },
		func() { store.DeleteSession("s2") },
		func() { store.SetCurrentSession("missing") },
		func() { store.ApplyResult(testResult("s1", "d", at(4, 10))) },
		func() { store.DeleteSession("s1") },
		func() { store.ReplaceAll([]Session{testSession("s9", at(5, 10), "z")}) },
		func() { store.ClearAll() },
	}

	for _, step := range steps {
		step()
		assertInvariants(t, store.Snapshot())
	}
}
