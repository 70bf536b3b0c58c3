// Package evaluator scores interview answers on clarity, STAR structure
// and relevance using lexical heuristics and a rubric.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/llm"
	"github.com/Anwar-Qureshi/SkillBridge/internal/textstat"
)

// MinAnswerWords is the word count below which an answer always needs
// clarification.
const MinAnswerWords = 8

const advisoryMaxTokens = 256

var (
	actionHints = []string{"action", "did", "responsible", "implemented", "led"}
	resultHints = []string{"result", "outcome", "reduced", "improved", "increased"}
)

// Scorer computes a Result for a question/answer pair. It is safe for
// concurrent use.
type Scorer struct {
	rubric  dataset.Rubric
	backend *llm.Backend
	log     *zap.Logger
}

// New creates a Scorer. An invalid rubric is replaced by the default one;
// backend may be nil.
func New(rubric dataset.Rubric, backend *llm.Backend, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	if err := rubric.Validate(); err != nil {
		log.Warn("invalid rubric, using defaults", zap.Error(err))
		rubric = dataset.DefaultRubric()
	}
	return &Scorer{rubric: rubric, backend: backend, log: log}
}

// Rubric returns the rubric in effect.
func (s *Scorer) Rubric() dataset.Rubric {
	return s.rubric
}

// Score rates answer against question. When a generative backend is
// available its opinion is requested and logged, but the heuristic result
// is always the one returned.
func (s *Scorer) Score(ctx context.Context, question, answer string) Result {
	s.advise(ctx, question, answer)

	words := textstat.WordCount(answer)
	structure, issue := StructureScore(answer)

	r := Result{
		Clarity:        ClarityScore(answer),
		Structure:      structure,
		Relevance:      RelevanceScore(question, answer),
		StructureIssue: issue,
	}

	w := s.rubric.Weights
	total := float64(r.Clarity)*float64(w.Clarity)/100 +
		float64(r.Structure)*float64(w.Structure)/100 +
		float64(r.Relevance)*float64(w.Relevance)/100
	r.Total = round2(math.Max(0, math.Min(100, total)))

	r.ClarificationNeeded = r.Total < s.rubric.ClarificationThreshold || words < MinAnswerWords
	r.Diagnostics = Diagnostics{
		Clarity:   clarityDiagnostic(r.Clarity),
		Structure: structureDiagnostic(issue),
		Relevance: relevanceDiagnostic(r.Relevance),
	}
	return r
}

// ClarityScore rewards length up to a cap and penalizes filler words.
func ClarityScore(answer string) int {
	words := textstat.WordCount(answer)
	if words == 0 {
		return 0
	}
	score := min(100, 20+words*4) - textstat.FillerCount(answer)*6
	return max(0, score)
}

// StructureScore grades how much of the STAR pattern answer shows and
// names the missing part. Only blank text counts as empty; punctuation
// with no words is graded as a short answer.
func StructureScore(answer string) (int, Issue) {
	if strings.TrimSpace(answer) == "" {
		return 0, IssueMissingAction
	}
	words := textstat.WordCount(answer)

	lower := strings.ToLower(answer)
	hasAction := textstat.HasActionWords(answer) || containsAny(lower, actionHints)
	hasResult := textstat.HasResultPhrase(answer) || containsAny(lower, resultHints)

	switch {
	case hasAction && hasResult:
		return 90, IssueNone
	case hasAction:
		return 55, IssueMissingResult
	case hasResult:
		return 50, IssueMissingAction
	case words < 12:
		return 30, IssueMissingAction
	default:
		return 45, IssueMissingAction
	}
}

// RelevanceScore measures the share of the question's content words that
// the answer repeats. A question without content words scores 50.
func RelevanceScore(question, answer string) int {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return 0
	}
	ratio, n := textstat.Overlap(question, answer)
	if n == 0 {
		return 50
	}
	return int(math.Min(100, ratio*100))
}

// advise asks the backend for its own scores and logs them.
func (s *Scorer) advise(ctx context.Context, question, answer string) {
	if !s.backend.HasProvider() {
		return
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeScore)

	raw, ok := s.backend.GenerateJSON(ctx, buildScorePrompt(question, answer), AdvisorySchema, advisoryMaxTokens)
	if !ok {
		return
	}
	var adv advisoryScore
	if err := json.Unmarshal(raw, &adv); err != nil {
		s.log.Debug("advisory score unreadable", zap.Error(err))
		return
	}
	s.log.Debug("advisory score",
		zap.Int("clarity", adv.Clarity),
		zap.Int("star_structure", adv.Structure),
		zap.Int("relevance", adv.Relevance))
}

func buildScorePrompt(question, answer string) string {
	var b strings.Builder
	b.WriteString("Score the answer 0-100 on clarity, star_structure and relevance.\n")
	fmt.Fprintf(&b, "QUESTION: %s\n", question)
	fmt.Fprintf(&b, "ANSWER: %s\n", answer)
	return b.String()
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// round2 rounds to two decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
