// Package coach turns a scored answer into actionable feedback.
package coach

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Anwar-Qureshi/SkillBridge/internal/cache"
	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/llm"
)

const (
	coachingMaxTokens   = 2048
	coachingTemperature = 0.7

	cacheKeyPrefix = "skillbridge:coach:feedback:"
	cacheTTL       = 24 * time.Hour
)

// Synthesizer builds Feedback from templates and, when available, one
// generative call. It is safe for concurrent use.
type Synthesizer struct {
	templates dataset.GeneralTemplates
	backend   *llm.Backend
	cache     cache.Cache
	flight    singleflight.Group
	log       *zap.Logger
}

// New creates a Synthesizer. backend and c may be nil.
func New(templates dataset.Templates, backend *llm.Backend, c cache.Cache, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{templates: templates.General, backend: backend, cache: c, log: log}
}

// GenerateFeedback never fails: every section the backend cannot supply is
// replaced by built-in text.
func (s *Synthesizer) GenerateFeedback(ctx context.Context, q dataset.Question, answer string, eval evaluator.Result) Feedback {
	bullet, practice := advice(s.templates, eval)
	fb := Feedback{
		ImprovementBullet: bullet,
		PracticePrompt:    practice,
		ModelAnswer:       modelAnswer(s.templates, q),
	}

	coaching, ideal := s.generate(ctx, q.Text, answer, eval)

	fb.CoachingGenerated = coaching != ""
	if !fb.CoachingGenerated {
		coaching = fallbackCoaching(eval)
	}
	fb.IdealGenerated = ideal != ""
	if !fb.IdealGenerated {
		ideal = FallbackIdealAnswer
	}
	fb.PersonalizedCoaching, fb.IdealAnswer = coaching, ideal
	return fb
}

type cachedSections struct {
	Coaching    string `json:"coaching"`
	IdealAnswer string `json:"ideal_answer"`
}

// generate returns the generated sections; either may be empty.
func (s *Synthesizer) generate(ctx context.Context, question, answer string, eval evaluator.Result) (coaching, ideal string) {
	if !s.backend.HasProvider() {
		return "", ""
	}

	// Concurrent requests for the same pair share one lookup and at most
	// one backend call. The shared call outlives any single caller; each
	// caller stops waiting when its own context ends.
	key := CacheKey(question, answer)
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		if cached, ok := s.lookup(shared, key); ok {
			return cached, nil
		}
		return s.request(shared, key, question, answer, eval), nil
	})

	select {
	case <-ctx.Done():
		return "", ""
	case r := <-ch:
		sections := r.Val.(cachedSections)
		return sections.Coaching, sections.IdealAnswer
	}
}

func (s *Synthesizer) request(ctx context.Context, key, question, answer string, eval evaluator.Result) cachedSections {
	ctx = llm.WithPurpose(ctx, llm.PurposeCoaching)
	text, ok := s.backend.Generate(ctx, buildCoachingPrompt(question, answer, eval), coachingMaxTokens, coachingTemperature)
	if !ok {
		return cachedSections{}
	}

	coaching, ideal, ok := splitSections(text)
	if !ok {
		s.log.Debug("generated coaching lacked section markers; using built-in text")
		return cachedSections{}
	}
	sections := cachedSections{Coaching: coaching, IdealAnswer: ideal}
	if coaching != "" && ideal != "" {
		s.store(ctx, key, sections)
	}
	return sections
}

func (s *Synthesizer) lookup(ctx context.Context, key string) (cachedSections, bool) {
	var out cachedSections
	if s.cache == nil {
		return out, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("coaching cache read failed", zap.Error(err))
		}
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out.Coaching == "" || out.IdealAnswer == "" {
		s.log.Debug("discarding unreadable cached coaching", zap.String("key", key))
		return cachedSections{}, false
	}
	return out, true
}

func (s *Synthesizer) store(ctx context.Context, key string, sections cachedSections) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(sections)
	if err != nil {
		return
	}
	if err := s.cache.Set(context.WithoutCancel(ctx), key, string(data), cacheTTL); err != nil {
		s.log.Warn("coaching cache write failed", zap.Error(err))
	}
}

// CacheKey identifies generated coaching for a question/answer pair.
func CacheKey(question, answer string) string {
	sum := sha256.Sum256([]byte(question + "\x00" + answer))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
