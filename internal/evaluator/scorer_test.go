package evaluator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/llm"
)

const challengeQuestion = "Tell me about a past technical challenge you solved."

func newScorer() *Scorer {
	return New(dataset.DefaultRubric(), nil, nil)
}

func TestScore_EmptyAnswer(t *testing.T) {
	r := newScorer().Score(context.Background(), challengeQuestion, "")

	assert.Equal(t, 0, r.Clarity)
	assert.Equal(t, 0, r.Structure)
	assert.Equal(t, 0, r.Relevance)
	assert.Equal(t, IssueMissingAction, r.StructureIssue)
	assert.True(t, r.ClarificationNeeded)
	assert.Equal(t, 0.0, r.Total)
}

func TestScore_WorkedExample(t *testing.T) {
	answer := "I led the team, implemented a caching layer and reduced response time by 40%"
	r := newScorer().Score(context.Background(), challengeQuestion, answer)

	// 14 words, no filler.
	assert.Equal(t, 76, r.Clarity)
	assert.Equal(t, 90, r.Structure)
	assert.Equal(t, IssueNone, r.StructureIssue)
	assert.Equal(t, 0, r.Relevance)
	assert.Equal(t, 61.9, r.Total)
	assert.False(t, r.ClarificationNeeded)
	assert.Equal(t, "STAR present with Situation, Task, Action, Result.", r.Diagnostics.Structure)
	assert.Equal(t, "Clear and concise.", r.Diagnostics.Clarity)
	assert.Equal(t, "Answer drifts from the question; focus on the asked problem.", r.Diagnostics.Relevance)
}

func TestStructureScore(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		score  int
		issue  Issue
	}{
		{"action and percentage", "I implemented a caching layer and reduced response time by 40%", 90, IssueNone},
		{"action without result", "I implemented a new deployment pipeline for the team", 55, IssueMissingResult},
		{"result without action", "Our latency went down 40% last quarter", 50, IssueMissingAction},
		{"neither, short", "We had a problem with the database", 30, IssueMissingAction},
		{"neither, long", "We had a problem with the database and the whole team worried about it for weeks", 45, IssueMissingAction},
		{"substring action hint", "I was responsible for the migration plan", 55, IssueMissingResult},
		{"substring result hint", "The outcome was a calmer on-call rotation", 50, IssueMissingAction},
		{"blank", "   ", 0, IssueMissingAction},
		{"punctuation only", "...", 30, IssueMissingAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, issue := StructureScore(tt.answer)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.issue, issue)
		})
	}
}

func TestClarityScore(t *testing.T) {
	assert.Equal(t, 0, ClarityScore(""))
	assert.Equal(t, 24, ClarityScore("Hello"))
	assert.Equal(t, 30, ClarityScore("um so basically I um did it"))
	assert.Equal(t, 100, ClarityScore(strings.Repeat("word ", 30)))
	assert.Equal(t, 0, ClarityScore(strings.Repeat("um ", 10)))
}

func TestRelevanceScore(t *testing.T) {
	assert.Equal(t, 40, RelevanceScore("How did you handle conflict", "I handle conflict by listening"))
	assert.Equal(t, 100, RelevanceScore("Handle conflict", "conflict? I handle conflict daily"))
	assert.Equal(t, 50, RelevanceScore("the and of", "anything at all"))
	assert.Equal(t, 0, RelevanceScore("", "an answer"))
	assert.Equal(t, 0, RelevanceScore("A question", ""))
}

func TestScore_ClarificationThreshold(t *testing.T) {
	s := newScorer()

	short := s.Score(context.Background(), challengeQuestion, "I implemented it and improved 40%")
	assert.Less(t, 0, short.Structure)
	assert.True(t, short.ClarificationNeeded, "answers under eight words need clarification")

	weak := s.Score(context.Background(), challengeQuestion,
		"um we had um a problem um with the database um")
	assert.Less(t, weak.Total, 45.0)
	assert.True(t, weak.ClarificationNeeded)
}

func TestScore_BoundsHold(t *testing.T) {
	heavy := dataset.Rubric{
		Weights:                dataset.Weights{Clarity: 100, Structure: 100, Relevance: 100},
		ClarificationThreshold: 45,
	}
	s := New(heavy, nil, nil)

	answers := []string{
		"",
		"um",
		strings.Repeat("like ", 50),
		strings.Repeat("I implemented and led the challenge, reduced cost by 90% ", 20),
		"Tell me about a past technical challenge you solved: I solved it.",
		"42 % 17 users ✓ ünïcödé",
	}
	for _, a := range answers {
		r := s.Score(context.Background(), challengeQuestion, a)
		for _, v := range []int{r.Clarity, r.Structure, r.Relevance} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
		assert.GreaterOrEqual(t, r.Total, 0.0)
		assert.LessOrEqual(t, r.Total, 100.0)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := newScorer()
	answer := "Basically I designed the rollout, um, and we saved 3 days per release."

	first := s.Score(context.Background(), challengeQuestion, answer)
	second := s.Score(context.Background(), challengeQuestion, answer)
	assert.Equal(t, first, second)
}

func TestScore_TotalRounding(t *testing.T) {
	rubric := dataset.Rubric{
		Weights:                dataset.Weights{Clarity: 33, Structure: 33, Relevance: 34},
		ClarificationThreshold: 45,
	}
	r := New(rubric, nil, nil).Score(context.Background(), "How did you handle conflict",
		"I handle conflict by listening")

	// clarity 40, structure 30, relevance 40
	require.Equal(t, 40, r.Clarity)
	require.Equal(t, 30, r.Structure)
	require.Equal(t, 40, r.Relevance)
	assert.Equal(t, 36.7, r.Total)
}

func TestNew_InvalidRubricFallsBack(t *testing.T) {
	s := New(dataset.Rubric{}, nil, nil)
	assert.Equal(t, dataset.DefaultRubric(), s.Rubric())
}

func TestScore_AdvisoryCallIsInformational(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte(`{"clarity": 5, "star_structure": 5, "relevance": 5}`),
	})
	s := New(dataset.DefaultRubric(), llm.NewBackend(mock, 0, nil), nil)

	answer := "I implemented a caching layer and reduced response time by 40%"
	got := s.Score(context.Background(), challengeQuestion, answer)
	want := newScorer().Score(context.Background(), challengeQuestion, answer)

	assert.Equal(t, want, got)
	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.LastPrompt(), "Score the answer 0-100 on clarity, star_structure and relevance.")
	assert.Contains(t, mock.LastPrompt(), "ANSWER: "+answer)
}

func TestScore_BackendFailureIgnored(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	s := New(dataset.DefaultRubric(), llm.NewBackend(mock, 0, nil), nil)

	r := s.Score(context.Background(), challengeQuestion, "I implemented a caching layer and reduced response time by 40%")
	assert.Equal(t, 90, r.Structure)
}
