package session

// reconcile merges the authoritative session list into the local state. The
// server owns which sessions exist and what they contain, so the local list
// is replaced, not merged; only the selection is carried over, and only when
// the server still reports that session. With nothing left to select, both
// the selection and the projection clear.
func reconcile(local State, authoritative []Session) State {
	sessions := cloneSessions(authoritative)
	for i := range sessions {
		normalizeSession(&sessions[i])
	}
	sortSessions(sessions)

	next := State{Sessions: sessions}
	if len(sessions) == 0 {
		return next
	}

	if findSession(sessions, local.CurrentSessionID) != nil {
		next.CurrentSessionID = local.CurrentSessionID
	} else {
		next.CurrentSessionID = sessions[0].ID
	}
	next.Current = projectionFor(findSession(next.Sessions, next.CurrentSessionID))
	return next
}
