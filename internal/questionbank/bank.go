// Package questionbank selects interview questions adaptively.
package questionbank

import (
	"math/rand/v2"

	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
)

// Score thresholds steering the next question's difficulty.
const (
	HardScore = 70 // at or above: hard
	EasyScore = 50 // below: easy
)

const (
	clarifyResult  = "Can you add the measurable result you achieved (e.g., reduced X by Y)?"
	clarifyAction  = "Can you clarify the specific actions you personally took?"
	clarifyGeneric = "Could you briefly clarify the most important action you took and its outcome?"
)

// Bank is an immutable question set, safe to share across sessions.
type Bank struct {
	questions []dataset.Question
	byID      map[string]dataset.Question
	buckets   map[dataset.Difficulty][]dataset.Question
	intn      func(n int) int
}

// Option configures a Bank.
type Option func(*Bank)

// WithRand replaces the uniform random source; intn must return a value
// in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(b *Bank) { b.intn = intn }
}

// New builds a Bank over questions, which must not be empty.
func New(questions []dataset.Question, opts ...Option) (*Bank, error) {
	if len(questions) == 0 {
		return nil, dataset.ErrNoQuestions
	}

	b := &Bank{
		questions: append([]dataset.Question(nil), questions...),
		byID:      make(map[string]dataset.Question, len(questions)),
		buckets:   make(map[dataset.Difficulty][]dataset.Question),
		intn:      rand.IntN,
	}
	for _, q := range b.questions {
		b.byID[q.ID] = q
		d := q.Difficulty.Normalize()
		b.buckets[d] = append(b.buckets[d], q)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Lookup returns the question with the given id.
func (b *Bank) Lookup(id string) (dataset.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// PreferredDifficulty maps the last total score to a difficulty. No score
// yet means medium.
func PreferredDifficulty(lastScore *float64) dataset.Difficulty {
	switch {
	case lastScore == nil:
		return dataset.Medium
	case *lastScore >= HardScore:
		return dataset.Hard
	case *lastScore < EasyScore:
		return dataset.Easy
	default:
		return dataset.Medium
	}
}

// PickQuestion chooses the next question for state and records it as the
// current question. Questions already in the history are skipped until
// every question has been asked.
func (b *Bank) PickQuestion(state *session.SessionState) dataset.Question {
	bucket := b.buckets[PreferredDifficulty(state.LastOverallScore)]
	if len(bucket) == 0 {
		bucket = b.questions
	}

	candidates := unasked(bucket, state)
	if len(candidates) == 0 {
		candidates = unasked(b.questions, state)
	}
	if len(candidates) == 0 {
		candidates = bucket
	}

	q := candidates[b.intn(len(candidates))]
	state.CurrentQuestionID = q.ID
	return q
}

// AskClarification returns the follow-up prompt for the last evaluation's
// structure issue.
func (b *Bank) AskClarification(q dataset.Question, state *session.SessionState) string {
	var issue evaluator.Issue
	if state.LastEval != nil {
		issue = state.LastEval.StructureIssue
	}
	switch issue {
	case evaluator.IssueMissingResult:
		return clarifyResult
	case evaluator.IssueMissingAction:
		return clarifyAction
	default:
		return clarifyGeneric
	}
}

func unasked(qs []dataset.Question, state *session.SessionState) []dataset.Question {
	asked := make(map[string]struct{}, len(state.History))
	for _, t := range state.History {
		asked[t.QuestionID] = struct{}{}
	}
	var out []dataset.Question
	for _, q := range qs {
		if _, ok := asked[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}
