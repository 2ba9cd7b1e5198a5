package session

import "sort"

// sortSessions orders sessions newest first by UpdatedAt. The comparison is
// a numeric instant comparison, never a string comparison of formatted
// timestamps, so mixed zone representations still order correctly. The sort
// is stable: equal instants keep their existing relative order, which makes
// re-sorting an already sorted slice a no-op.
func sortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}

// sessionsOrdered reports whether the slice is already newest-first, so
// callers can skip work (and a persistence write) when nothing would move.
func sessionsOrdered(sessions []Session) bool {
	for i := 1; i < len(sessions); i++ {
		if sessions[i].UpdatedAt.After(sessions[i-1].UpdatedAt) {
			return false
		}
	}
	return true
}
