package session

import (
	"bytes"
	"encoding/json"
)

// Sanitize turns a raw persisted blob into a usable state. The second return
// is false when the blob carries no usable state at all: not JSON, not an
// object, or a sessions field that is not an array. Anything less broken is
// repaired: sessions with a malformed message list are dropped, the selection
// is re-resolved against the survivors, and the projection is rebuilt unless
// the persisted one still matches the resolved selection.
//
// An empty session list is a legitimate state, not corruption, so a blob
// that decodes to zero surviving sessions yields (empty, true).
//
// Sanitize never panics; it is the only reader of persisted state and runs
// once at process start.
func Sanitize(raw []byte) (*State, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, false
	}

	rawSessions, ok := top["sessions"]
	if !ok || !isJSONArray(rawSessions) {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawSessions, &items); err != nil {
		return nil, false
	}

	sessions := make([]Session, 0, len(items))
	for _, item := range items {
		if s, ok := decodeSession(item); ok {
			sessions = append(sessions, s)
		}
	}
	sortSessions(sessions)

	st := State{Sessions: sessions}

	var persistedID string
	if rawID, ok := top["current_session_id"]; ok {
		// A non-string value here is recoverable: treat as no selection.
		_ = json.Unmarshal(rawID, &persistedID)
	}
	switch {
	case findSession(sessions, persistedID) != nil:
		st.CurrentSessionID = persistedID
	case len(sessions) > 0:
		st.CurrentSessionID = sessions[0].ID
	}

	current := findSession(st.Sessions, st.CurrentSessionID)
	st.Current = projectionFor(current)
	if rawCur, ok := top["current_comparison"]; ok && st.Current != nil {
		// Keep the persisted projection only as a cache-warm value for the
		// session that survived as current; anything else is rebuilt.
		var persisted Comparison
		if err := json.Unmarshal(rawCur, &persisted); err == nil && persisted.SessionID == current.ID {
			normalizeComparison(&persisted)
			st.Current = &persisted
		}
	}

	return &st, true
}

// decodeSession probes one raw element before trusting it. A session whose
// messages field is missing or not an array is dropped wholesale; that is the
// signature of a partially written or foreign-schema blob.
func decodeSession(item []byte) (Session, bool) {
	var probe struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(item, &probe); err != nil {
		return Session{}, false
	}
	if !isJSONArray(probe.Messages) {
		return Session{}, false
	}

	var s Session
	if err := json.Unmarshal(item, &s); err != nil {
		return Session{}, false
	}
	normalizeSession(&s)
	return s, true
}

// normalizeSession pins timestamps to UTC and lifts UpdatedAt so it is never
// behind CreatedAt or the newest message.
func normalizeSession(s *Session) {
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	if s.UpdatedAt.Before(s.CreatedAt) {
		s.UpdatedAt = s.CreatedAt
	}
	for i := range s.Messages {
		s.Messages[i].Timestamp = s.Messages[i].Timestamp.UTC()
	}
	if n := len(s.Messages); n > 0 {
		if last := s.Messages[n-1].Timestamp; s.UpdatedAt.Before(last) {
			s.UpdatedAt = last
		}
	}
	normalizeMetrics(&s.Metrics)
}

func normalizeMetrics(m *Metrics) {
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
}

func normalizeComparison(c *Comparison) {
	c.Timestamp = c.Timestamp.UTC()
	normalizeMetrics(&c.Metrics)
}

// isJSONArray rejects both absent fields and JSON null, which unmarshal
// silently into a nil slice.
func isJSONArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}
