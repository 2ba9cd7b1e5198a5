package dto

import "time"

type SessionMessageResponse struct {
	Prompt    string                   `json:"prompt"`
	Timestamp time.Time                `json:"timestamp"`
	Baseline  ModeResultResponse       `json:"baseline"`
	Rag       ModeResultResponse       `json:"rag"`
	Retrieval []RetrievedChunkResponse `json:"retrieval,omitempty"`
}

// SessionResponse mirrors the durable session shape clients reconcile
// against, plus title and message count for listings.
type SessionResponse struct {
	SessionId    string                    `json:"session_id"`
	Title        string                    `json:"title"`
	MessageCount int                       `json:"message_count"`
	Messages     []SessionMessageResponse  `json:"messages"`
	Metrics      ComparisonMetricsResponse `json:"metrics"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

type DeleteSessionResponse struct {
	Deleted bool `json:"deleted"`
}

type ClearSessionsResponse struct {
	Deleted int64 `json:"deleted"`
}
