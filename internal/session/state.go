// Package session holds the per-session practice state and its report.
package session

import (
	"time"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
)

// Phase is where a session is in the question/answer cycle.
type Phase string

const (
	PhaseIdle                  Phase = "idle"                   // No question asked
	PhaseAwaitingAnswer        Phase = "awaiting_answer"        // Question asked
	PhaseAwaitingClarification Phase = "awaiting_clarification" // Clarification requested
)

// Turn is one finalized question and answer. An answer that went through
// a clarification round is stored once, with the clarification appended.
type Turn struct {
	QuestionID   string           `json:"question_id"`
	QuestionText string           `json:"question_text"`
	Answer       string           `json:"answer"`
	Evaluation   evaluator.Result `json:"evaluation"`
	Feedback     coach.Feedback   `json:"feedback"`
	Clarified    bool             `json:"clarified"`
	Timestamp    time.Time        `json:"timestamp"`
}

// SessionState tracks one practice session. It is not safe for concurrent
// use; the Registry serializes access per session.
type SessionState struct {
	ID        string    `json:"id"`
	User      string    `json:"user,omitempty"`
	StartTime time.Time `json:"start_time"`

	// History is append-only, oldest first.
	History []Turn `json:"history"`

	// CurrentQuestionID is the question awaiting an answer, if any.
	CurrentQuestionID string `json:"current_question_id,omitempty"`

	// LastOverallScore is the total of the latest turn; nil before the first.
	LastOverallScore *float64 `json:"last_overall_score,omitempty"`

	// LastEval is the most recent evaluation, including one that led to a
	// clarification request.
	LastEval *evaluator.Result `json:"last_eval,omitempty"`

	Phase Phase `json:"phase"`

	// PendingAnswer holds the answer waiting for its clarification.
	PendingAnswer string `json:"pending_answer,omitempty"`
}

// NewSessionState creates an empty session.
func NewSessionState(id, user string) *SessionState {
	return &SessionState{
		ID:        id,
		User:      user,
		StartTime: time.Now(),
		Phase:     PhaseIdle,
	}
}

// Asked reports whether questionID appears in the history.
func (s *SessionState) Asked(questionID string) bool {
	for _, t := range s.History {
		if t.QuestionID == questionID {
			return true
		}
	}
	return false
}

// Record appends a finalized turn and resets the per-question state.
func (s *SessionState) Record(turn Turn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	s.History = append(s.History, turn)

	total := turn.Evaluation.Total
	eval := turn.Evaluation
	s.LastOverallScore = &total
	s.LastEval = &eval

	s.CurrentQuestionID = ""
	s.PendingAnswer = ""
	s.Phase = PhaseIdle
}

// Totals returns the total score of every turn, oldest first.
func (s *SessionState) Totals() []float64 {
	out := make([]float64, len(s.History))
	for i, t := range s.History {
		out[i] = t.Evaluation.Total
	}
	return out
}
