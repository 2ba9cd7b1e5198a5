package session

import "sync"

// Observer receives a deep-copied snapshot after every committed mutation.
// Observers run synchronously on the mutating goroutine and must not call
// back into the store; the persistence sink only encodes and writes.
type Observer func(State)

// Store owns the one writable copy of the comparison state. Every mutation
// runs to completion under a single writer lock, so the state invariants
// hold at every observable instant between operations: the current id is
// empty or names a live session, sessions stay newest-first, and the
// projection never references a deleted session.
type Store struct {
	mu        sync.Mutex
	state     State
	observers []Observer
}

func NewStore() *Store {
	return &Store{state: emptyState()}
}

// Seed replaces the state with the sanitized content of a persisted blob,
// or the empty state when the blob is unusable. Called once at process
// start, before any observer is registered, so it does not notify.
func (s *Store) Seed(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := Sanitize(raw); ok {
		s.state = *st
		return
	}
	s.state = emptyState()
}

// Subscribe registers a commit observer. Registration happens once at
// startup; there is no unsubscribe.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// ApplyResult records one dual-answer result. A known session id appends a
// message, takes the result's metrics wholesale, and re-sorts into recency
// position; an unknown id synthesizes a new session from the result and
// prepends it. Either way the result's session becomes current and the
// result itself becomes the projection verbatim, it is already authoritative.
//
// When several comparisons for different sessions resolve concurrently, the
// last resolution to run wins the foreground. That is the intended policy:
// there is no request ordering token, and a late response is still applied.
func (s *Store) ApplyResult(res Comparison) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := sessionIndex(s.state.Sessions, res.SessionID); idx >= 0 {
		target := &s.state.Sessions[idx]
		target.Messages = append(target.Messages, messageFrom(res))
		target.Metrics = res.Metrics
		if target.UpdatedAt.Before(res.Timestamp) {
			target.UpdatedAt = res.Timestamp
		}
	} else {
		created := Session{
			ID:        res.SessionID,
			CreatedAt: res.Metrics.CreatedAt,
			UpdatedAt: res.Metrics.UpdatedAt,
			Messages:  []Message{messageFrom(res)},
			Metrics:   res.Metrics,
		}
		s.state.Sessions = append([]Session{created}, s.state.Sessions...)
	}
	// A fresh result normally lands at the head already; the sort only runs
	// when a late response arrives with an older timestamp.
	if !sessionsOrdered(s.state.Sessions) {
		sortSessions(s.state.Sessions)
	}

	s.state.CurrentSessionID = res.SessionID
	projected := res
	s.state.Current = &projected
	s.commit()
}

// SetCurrentSession switches the selection. An empty or unknown id means no
// selection; an unknown id is never kept around as a dangling reference.
// The projection is rebuilt from the selected session's latest message, or
// cleared when there is nothing to project.
func (s *Store) SetCurrentSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := findSession(s.state.Sessions, id)
	if target == nil {
		id = ""
	}
	s.state.CurrentSessionID = id
	s.state.Current = projectionFor(target)
	s.commit()
}

// DeleteSession removes one session. Deleting the current session promotes
// the most recently updated survivor (or clears the selection); deleting a
// non-current session that the projection still references clears only the
// projection, so a stale view can never outlive its session.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := sessionIndex(s.state.Sessions, id)
	if idx < 0 {
		return
	}
	s.state.Sessions = append(s.state.Sessions[:idx], s.state.Sessions[idx+1:]...)

	switch {
	case s.state.CurrentSessionID == id:
		next := mostRecent(s.state.Sessions)
		if next != nil {
			s.state.CurrentSessionID = next.ID
		} else {
			s.state.CurrentSessionID = ""
		}
		s.state.Current = projectionFor(next)
	case s.state.Current != nil && s.state.Current.SessionID == id:
		s.state.Current = nil
	}
	s.commit()
}

// ClearAll wipes every session, the selection and the projection.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = emptyState()
	s.commit()
}

// ReplaceAll overlays the authoritative server list: sessions are replaced
// wholesale, the selection survives only if the server still knows it, and
// the projection is rebuilt from the resolved selection. Reconciling the
// same list twice yields the same state.
//
// A refresh racing an in-flight ApplyResult can carry a snapshot that
// predates the just-applied result; the appended message then disappears
// until the next refresh. That eventual-consistency window is accepted
// rather than patched over with merge heuristics.
func (s *Store) ReplaceAll(authoritative []Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = reconcile(s.state, authoritative)
	s.commit()
}

// commit hands a deep-copied snapshot to every observer, in registration
// order, while still holding the writer lock. Observers therefore see
// commits exactly as they happened, and a re-entrant mutation would
// deadlock instead of corrupting state.
func (s *Store) commit() {
	if len(s.observers) == 0 {
		return
	}
	snap := cloneState(s.state)
	for _, fn := range s.observers {
		fn(snap)
	}
}
