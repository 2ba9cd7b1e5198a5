package events

import "time"

// Event type codes published on the bus. Subjects become "events.<code>".
const (
	TypeComparisonCompleted = "comparison.completed"
	TypeSessionDeleted      = "session.deleted"
	TypeSessionsCleared     = "sessions.cleared"
	TypeDocumentIngested    = "document.ingested"
	TypeDocumentFailed      = "document.failed"
)

// NewComparisonCompleted fires after both pipelines answered and the message
// was persisted; clients refresh the session list on it.
func NewComparisonCompleted(sessionID string, similarity float64) Event {
	return BaseEvent{
		Type: TypeComparisonCompleted,
		Data: map[string]interface{}{
			"session_id":          sessionID,
			"semantic_similarity": similarity,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewSessionDeleted(sessionID string) Event {
	return BaseEvent{
		Type:       TypeSessionDeleted,
		Data:       map[string]interface{}{"session_id": sessionID},
		OccurredAt: time.Now().UTC(),
	}
}

func NewSessionsCleared(deleted int64) Event {
	return BaseEvent{
		Type:       TypeSessionsCleared,
		Data:       map[string]interface{}{"deleted": deleted},
		OccurredAt: time.Now().UTC(),
	}
}

// NewDocumentIngested carries the chunk count so clients can show ingest
// progress without refetching the document list.
func NewDocumentIngested(documentID string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id": documentID,
			"chunks":      chunks,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewDocumentFailed(documentID string, reason string) Event {
	return BaseEvent{
		Type: TypeDocumentFailed,
		Data: map[string]interface{}{
			"document_id": documentID,
			"reason":      reason,
		},
		OccurredAt: time.Now().UTC(),
	}
}
