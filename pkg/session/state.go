package session

import (
	"encoding/json"
	"time"
)

// ModeBlock is one side of a comparison answer: the text a pipeline produced,
// how long it took, and (for the retrieval-augmented side) the retrieval score.
type ModeBlock struct {
	Answer     string   `json:"answer"`
	LatencyMS  float64  `json:"latency_ms"`
	Similarity *float64 `json:"similarity,omitempty"`
}

// Message is a single conversational turn: one prompt answered twice.
// Messages are immutable once appended; a session's history is append-only.
type Message struct {
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
	Baseline  ModeBlock `json:"baseline"`
	RAG       ModeBlock `json:"rag"`
}

// Metrics is the per-session aggregate, overwritten from the latest result.
type Metrics struct {
	BaselineLatencyMS  float64   `json:"baseline_latency_ms"`
	RAGLatencyMS       float64   `json:"rag_latency_ms"`
	SemanticSimilarity float64   `json:"semantic_similarity"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Session is one comparison thread. The message slice is insertion-ordered
// and UpdatedAt always tracks the newest message.
type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
	Metrics   Metrics   `json:"metrics"`
}

// Comparison is the dual-answer view of a single turn. The compare endpoint
// returns this shape, and the same shape serves as the derived "what to show
// now" projection. As a projection it is never authoritative: it must always
// be recomputable from the session list and the current selection.
type Comparison struct {
	SessionID string    `json:"session_id"`
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
	Baseline  ModeBlock `json:"baseline"`
	RAG       ModeBlock `json:"rag"`
	Metrics   Metrics   `json:"metrics"`
}

// State is the full client-side record: every known session, the selected
// session id ("" means no selection), and the projected comparison.
type State struct {
	Sessions         []Session   `json:"sessions"`
	CurrentSessionID string      `json:"current_session_id"`
	Current          *Comparison `json:"current_comparison"`
}

// Encode renders the state in the persisted form used by the sink.
func Encode(st State) ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}

// emptyState is the legitimate "nothing recorded yet" state, distinct from
// an unreadable blob.
func emptyState() State {
	return State{Sessions: []Session{}}
}

// findSession returns a pointer into sessions, or nil. The empty id never
// matches anything.
func findSession(sessions []Session, id string) *Session {
	if id == "" {
		return nil
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}

func sessionIndex(sessions []Session, id string) int {
	if id == "" {
		return -1
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// mostRecent returns the session with the newest UpdatedAt, preferring the
// earliest element on ties. Nil when the slice is empty.
func mostRecent(sessions []Session) *Session {
	if len(sessions) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(sessions); i++ {
		if sessions[i].UpdatedAt.After(sessions[best].UpdatedAt) {
			best = i
		}
	}
	return &sessions[best]
}

// projectionFor rebuilds the comparison view from a session's latest message.
// Nil when there is no session or it has no messages yet.
func projectionFor(s *Session) *Comparison {
	if s == nil || len(s.Messages) == 0 {
		return nil
	}
	last := s.Messages[len(s.Messages)-1]
	return &Comparison{
		SessionID: s.ID,
		Prompt:    last.Prompt,
		Timestamp: last.Timestamp,
		Baseline:  last.Baseline,
		RAG:       last.RAG,
		Metrics:   s.Metrics,
	}
}

func messageFrom(res Comparison) Message {
	return Message{
		Prompt:    res.Prompt,
		Timestamp: res.Timestamp,
		Baseline:  res.Baseline,
		RAG:       res.RAG,
	}
}

func cloneModeBlock(b ModeBlock) ModeBlock {
	out := b
	if b.Similarity != nil {
		v := *b.Similarity
		out.Similarity = &v
	}
	return out
}

func cloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
		out[i].Baseline = cloneModeBlock(m.Baseline)
		out[i].RAG = cloneModeBlock(m.RAG)
	}
	return out
}

func cloneSession(s Session) Session {
	out := s
	out.Messages = cloneMessages(s.Messages)
	return out
}

func cloneSessions(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		out[i] = cloneSession(s)
	}
	return out
}

func cloneComparison(c *Comparison) *Comparison {
	if c == nil {
		return nil
	}
	out := *c
	out.Baseline = cloneModeBlock(c.Baseline)
	out.RAG = cloneModeBlock(c.RAG)
	return &out
}

// cloneState deep-copies everything so snapshots handed to observers and
// readers can never alias the store's owned state.
func cloneState(st State) State {
	return State{
		Sessions:         cloneSessions(st.Sessions),
		CurrentSessionID: st.CurrentSessionID,
		Current:          cloneComparison(st.Current),
	}
}
