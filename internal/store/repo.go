package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a recorded LLM request.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates calls and tokens for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates calls and tokens for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// TurnRecord is one finalized practice turn.
type TurnRecord struct {
	ID           int64
	Sequence     int64
	SessionID    string
	QuestionID   string
	QuestionText string
	Answer       string
	Clarity      int
	Structure    int
	Relevance    int
	Total        float64
	Clarified    bool
	// Evaluation and Feedback hold the JSON encodings of the scoring
	// result and the coaching output.
	Evaluation json.RawMessage
	Feedback   json.RawMessage
	CreatedAt  time.Time
}

// SessionRecord summarizes a stored practice session.
type SessionRecord struct {
	ID           string
	User         string
	StartedAt    time.Time
	Turns        int
	AverageTotal float64
}

// TurnRepo persists practice sessions and their turns.
type TurnRepo interface {
	// CreateSession registers a session. Creating an existing id is a
	// no-op. A zero startedAt means now.
	CreateSession(ctx context.Context, id, user string, startedAt time.Time) error

	// AppendTurn stores a finalized turn, creating its session if needed.
	AppendTurn(ctx context.Context, turn TurnRecord) error

	// ListTurns returns a session's turns in the order they were taken.
	ListTurns(ctx context.Context, sessionID string) ([]TurnRecord, error)

	// ListSessions returns the most recent sessions first.
	ListSessions(ctx context.Context, limit int) ([]SessionRecord, error)
}
