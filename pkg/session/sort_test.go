package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortSessionsNewestFirst(t *testing.T) {
	sessions := []Session{
		testSession("old", at(1, 0)),
		testSession("newest", at(3, 0)),
		testSession("middle", at(2, 0)),
	}

	sortSessions(sessions)

	assert.Equal(t, "newest", sessions[0].ID)
	assert.Equal(t, "middle", sessions[1].ID)
	assert.Equal(t, "old", sessions[2].ID)
}

func TestSortSessionsStableOnTies(t *testing.T) {
	tie := at(2, 0)
	sessions := []Session{
		testSession("first-in", tie),
		testSession("second-in", tie),
		testSession("newer", at(3, 0)),
		testSession("third-in", tie),
	}

	sortSessions(sessions)

	assert.Equal(t, "newer", sessions[0].ID)
	assert.Equal(t, "first-in", sessions[1].ID)
	assert.Equal(t, "second-in", sessions[2].ID)
	assert.Equal(t, "third-in", sessions[3].ID)
}

func TestSortSessionsIdempotent(t *testing.T) {
	sessions := []Session{
		testSession("a", at(3, 0)),
		testSession("b", at(2, 0)),
		testSession("c", at(2, 0)),
		testSession("d", at(1, 0)),
	}

	sortSessions(sessions)
	once := make([]string, len(sessions))
	for i, s := range sessions {
		once[i] = s.ID
	}

	sortSessions(sessions)
	for i, s := range sessions {
		assert.Equal(t, once[i], s.ID)
	}
}

func TestSortComparesInstantsNotStrings(t *testing.T) {
	// The same instant rendered in two zones must tie, and an instant that
	// formats "smaller" as a string but is later must still win.
	jakarta := time.FixedZone("WIB", 7*3600)
	sessions := []Session{
		testSession("utc", time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)),
		testSession("zoned-same-instant", time.Date(2024, 1, 2, 10, 0, 0, 0, jakarta)),
		testSession("later", time.Date(2024, 1, 2, 3, 0, 1, 0, time.UTC)),
	}

	sortSessions(sessions)

	assert.Equal(t, "later", sessions[0].ID)
	assert.Equal(t, "utc", sessions[1].ID)
	assert.Equal(t, "zoned-same-instant", sessions[2].ID)
}

func TestSessionsOrdered(t *testing.T) {
	assert.True(t, sessionsOrdered(nil))
	assert.True(t, sessionsOrdered([]Session{testSession("one", at(1, 0))}))
	assert.True(t, sessionsOrdered([]Session{
		testSession("a", at(2, 0)),
		testSession("b", at(2, 0)),
		testSession("c", at(1, 0)),
	}))
	assert.False(t, sessionsOrdered([]Session{
		testSession("a", at(1, 0)),
		testSession("b", at(2, 0)),
	}))
}
