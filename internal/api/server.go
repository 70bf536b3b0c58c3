// Package api exposes the practice engine over HTTP/JSON.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/practice"
	"github.com/Anwar-Qureshi/SkillBridge/internal/questionbank"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
)

// Server serves the session and one-shot scoring endpoints. Session state
// lives in memory; each session is locked independently.
type Server struct {
	bank     *questionbank.Bank
	scorer   *evaluator.Scorer
	coach    *coach.Synthesizer
	runner   *practice.Runner
	sessions *session.Registry
	log      *zap.Logger
}

// NewServer wires a Server. The runner must be built over the same bank,
// scorer and synthesizer.
func NewServer(bank *questionbank.Bank, scorer *evaluator.Scorer, synth *coach.Synthesizer, runner *practice.Runner, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		bank:     bank,
		scorer:   scorer,
		coach:    synth,
		runner:   runner,
		sessions: session.NewRegistry(),
		log:      log,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.GET("/healthz", s.handleHealthz)
	engine.POST("/api/sessions", s.handleCreateSession)
	engine.GET("/api/sessions/:id", s.handleGetSession)
	engine.DELETE("/api/sessions/:id", s.handleDeleteSession)
	engine.POST("/api/sessions/:id/next", s.handleNext)
	engine.POST("/api/sessions/:id/answer", s.handleAnswer)
	engine.POST("/api/sessions/:id/clarify", s.handleClarify)
	engine.POST("/api/score", s.handleScore)
	engine.POST("/api/feedback", s.handleFeedback)
	return engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createSessionRequest struct {
	User string `json:"user"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}

	state := s.sessions.Create(strings.TrimSpace(req.User))
	c.JSON(http.StatusCreated, newStateResponse(state))
}

func (s *Server) handleGetSession(c *gin.Context) {
	var resp stateResponse
	err := s.sessions.With(c.Param("id"), func(state *session.SessionState) error {
		resp = newStateResponse(state)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if !s.sessions.Delete(c.Param("id")) {
		s.writeError(c, session.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// SweepSessions drops sessions idle for longer than idle, checking every
// interval until ctx ends.
func (s *Server) SweepSessions(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(idle); n > 0 {
				s.log.Info("dropped idle sessions", zap.Int("count", n), zap.Int("live", s.sessions.Len()))
			}
		}
	}
}

func (s *Server) handleNext(c *gin.Context) {
	var q dataset.Question
	err := s.sessions.With(c.Param("id"), func(state *session.SessionState) error {
		q = s.runner.Next(state)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": newQuestionResponse(q)})
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var out practice.Outcome
	err := s.sessions.With(c.Param("id"), func(state *session.SessionState) error {
		var err error
		out, err = s.runner.Submit(c.Request.Context(), state, req.Answer)
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOutcomeResponse(out))
}

type clarifyRequest struct {
	Clarification string `json:"clarification"`
}

func (s *Server) handleClarify(c *gin.Context) {
	var req clarifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var out practice.Outcome
	err := s.sessions.With(c.Param("id"), func(state *session.SessionState) error {
		var err error
		out, err = s.runner.Clarify(c.Request.Context(), state, req.Clarification)
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOutcomeResponse(out))
}

type scoreRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (s *Server) handleScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	eval := s.scorer.Score(c.Request.Context(), req.Question, req.Answer)
	c.JSON(http.StatusOK, newEvaluationResponse(eval))
}

type feedbackRequest struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	q := dataset.Question{Text: req.Question}
	if req.QuestionID != "" {
		found, ok := s.bank.Lookup(req.QuestionID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		q = found
	}
	if strings.TrimSpace(q.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question or question_id required"})
		return
	}

	ctx := c.Request.Context()
	eval := s.scorer.Score(ctx, q.Text, req.Answer)
	fb := s.coach.GenerateFeedback(ctx, q, req.Answer, eval)
	c.JSON(http.StatusOK, gin.H{
		"evaluation": newEvaluationResponse(eval),
		"feedback":   fb,
	})
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, practice.ErrEmptyAnswer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, practice.ErrNoActiveQuestion),
		errors.Is(err, practice.ErrNotAwaitingClarification),
		errors.Is(err, practice.ErrAwaitingClarification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
