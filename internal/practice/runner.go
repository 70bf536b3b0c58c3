// Package practice runs the question/answer cycle of a session, including
// the clarification round.
package practice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/questionbank"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
	"github.com/Anwar-Qureshi/SkillBridge/internal/store"
)

var (
	ErrNoActiveQuestion         = errors.New("no question is awaiting an answer")
	ErrEmptyAnswer              = errors.New("answer is empty")
	ErrNotAwaitingClarification = errors.New("no clarification was requested")
	ErrAwaitingClarification    = errors.New("a clarification is pending for the current question")
)

// Recorder persists finalized turns. store.TurnLog implements it.
type Recorder interface {
	CreateSession(ctx context.Context, id, user string, startedAt time.Time) error
	AppendTurn(ctx context.Context, turn store.TurnRecord) error
}

// Outcome is the result of submitting an answer or a clarification.
// Exactly one of ClarificationPrompt and Turn is set.
type Outcome struct {
	// ClarificationPrompt asks the user for more detail before the turn
	// is finalized.
	ClarificationPrompt string

	// Evaluation is the score of the submitted text.
	Evaluation evaluator.Result

	// Turn is the finalized turn as recorded in the session history.
	Turn *session.Turn
}

// Runner ties question selection, scoring and coaching together. It holds
// no per-session data and is safe for concurrent use; callers serialize
// access to each SessionState.
type Runner struct {
	bank     *questionbank.Bank
	scorer   *evaluator.Scorer
	coach    *coach.Synthesizer
	recorder Recorder
	log      *zap.Logger
}

// New creates a Runner. recorder may be nil to skip persistence.
func New(bank *questionbank.Bank, scorer *evaluator.Scorer, synth *coach.Synthesizer, recorder Recorder, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		bank:     bank,
		scorer:   scorer,
		coach:    synth,
		recorder: recorder,
		log:      log,
	}
}

// Next picks the next question and marks the session as awaiting its
// answer. A question left unanswered is abandoned.
func (r *Runner) Next(state *session.SessionState) dataset.Question {
	q := r.bank.PickQuestion(state)
	state.PendingAnswer = ""
	state.Phase = session.PhaseAwaitingAnswer
	return q
}

// Current returns the question awaiting an answer.
func (r *Runner) Current(state *session.SessionState) (dataset.Question, error) {
	if state.CurrentQuestionID == "" {
		return dataset.Question{}, ErrNoActiveQuestion
	}
	q, ok := r.bank.Lookup(state.CurrentQuestionID)
	if !ok {
		return dataset.Question{}, ErrNoActiveQuestion
	}
	return q, nil
}

// Submit scores an answer to the current question. A result that needs
// clarification returns a prompt and keeps the answer pending; otherwise
// the turn is coached and finalized.
func (r *Runner) Submit(ctx context.Context, state *session.SessionState, answer string) (Outcome, error) {
	if state.Phase == session.PhaseAwaitingClarification {
		return Outcome{}, ErrAwaitingClarification
	}
	q, err := r.Current(state)
	if err != nil {
		return Outcome{}, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Outcome{}, ErrEmptyAnswer
	}

	eval := r.scorer.Score(ctx, q.Text, answer)
	if eval.ClarificationNeeded {
		state.LastEval = &eval
		state.PendingAnswer = answer
		state.Phase = session.PhaseAwaitingClarification
		prompt := r.bank.AskClarification(q, state)

		r.log.Debug("clarification requested",
			zap.String("session", state.ID),
			zap.String("question", q.ID),
			zap.Float64("total", eval.Total),
			zap.String("issue", string(eval.StructureIssue)))
		return Outcome{ClarificationPrompt: prompt, Evaluation: eval}, nil
	}

	turn := r.finalize(ctx, state, q, answer, eval, false)
	return Outcome{Evaluation: eval, Turn: turn}, nil
}

// Clarify appends a clarification to the pending answer, rescores the
// combined text and finalizes the turn whatever the new score.
func (r *Runner) Clarify(ctx context.Context, state *session.SessionState, clarification string) (Outcome, error) {
	if state.Phase != session.PhaseAwaitingClarification {
		return Outcome{}, ErrNotAwaitingClarification
	}
	q, err := r.Current(state)
	if err != nil {
		return Outcome{}, err
	}
	clarification = strings.TrimSpace(clarification)
	if clarification == "" {
		return Outcome{}, ErrEmptyAnswer
	}

	combined := strings.TrimSpace(state.PendingAnswer + " " + clarification)
	eval := r.scorer.Score(ctx, q.Text, combined)
	turn := r.finalize(ctx, state, q, combined, eval, true)
	return Outcome{Evaluation: eval, Turn: turn}, nil
}

func (r *Runner) finalize(ctx context.Context, state *session.SessionState, q dataset.Question, answer string, eval evaluator.Result, clarified bool) *session.Turn {
	fb := r.coach.GenerateFeedback(ctx, q, answer, eval)

	state.Record(session.Turn{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Answer:       answer,
		Evaluation:   eval,
		Feedback:     fb,
		Clarified:    clarified,
	})
	turn := state.History[len(state.History)-1]

	r.log.Info("turn finalized",
		zap.String("session", state.ID),
		zap.String("question", q.ID),
		zap.Float64("total", eval.Total),
		zap.Bool("clarified", clarified))

	r.persist(ctx, state, turn)
	return &turn
}

// persist stores the turn. Failures are logged and otherwise ignored.
func (r *Runner) persist(ctx context.Context, state *session.SessionState, turn session.Turn) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.CreateSession(ctx, state.ID, state.User, state.StartTime); err != nil {
		r.log.Warn("failed to record session", zap.String("session", state.ID), zap.Error(err))
		return
	}

	evalJSON, err := json.Marshal(turn.Evaluation)
	if err != nil {
		r.log.Warn("failed to encode evaluation", zap.Error(err))
		return
	}
	fbJSON, err := json.Marshal(turn.Feedback)
	if err != nil {
		r.log.Warn("failed to encode feedback", zap.Error(err))
		return
	}

	rec := store.TurnRecord{
		SessionID:    state.ID,
		QuestionID:   turn.QuestionID,
		QuestionText: turn.QuestionText,
		Answer:       turn.Answer,
		Clarity:      turn.Evaluation.Clarity,
		Structure:    turn.Evaluation.Structure,
		Relevance:    turn.Evaluation.Relevance,
		Total:        turn.Evaluation.Total,
		Clarified:    turn.Clarified,
		Evaluation:   evalJSON,
		Feedback:     fbJSON,
		CreatedAt:    turn.Timestamp,
	}
	if err := r.recorder.AppendTurn(ctx, rec); err != nil {
		r.log.Warn("failed to record turn",
			zap.String("session", state.ID),
			zap.String("question", turn.QuestionID),
			zap.Error(err))
	}
}
