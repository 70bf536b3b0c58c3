package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Anwar-Qureshi/SkillBridge/internal/cache"
	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/config"
	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/llm"
	"github.com/Anwar-Qureshi/SkillBridge/internal/logger"
	"github.com/Anwar-Qureshi/SkillBridge/internal/practice"
	"github.com/Anwar-Qureshi/SkillBridge/internal/questionbank"
	"github.com/Anwar-Qureshi/SkillBridge/internal/store"
)

// engine is the fully wired practice engine for one command invocation.
type engine struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	backend *llm.Backend
	bank    *questionbank.Bank
	scorer  *evaluator.Scorer
	coach   *coach.Synthesizer
	runner  *practice.Runner
	closers []func() error
}

type engineOptions struct {
	// persist opens the database for turn and LLM event recording.
	persist bool
}

// buildEngine loads configuration and datasets and wires every component.
// Only an unreadable question set or database is fatal.
func buildEngine(ctx context.Context, cmd *cobra.Command, opts engineOptions) (*engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	e := &engine{cfg: cfg, log: logger.New(cfg.Log)}

	questions, err := dataset.LoadQuestions(cfg.Data.Questions)
	if err != nil {
		return nil, err
	}
	e.bank, err = questionbank.New(questions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Data.Questions, err)
	}

	var events store.EventRepo
	var recorder practice.Recorder
	if opts.persist {
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		e.store, err = store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		e.closers = append(e.closers, e.store.Close)
		events = e.store.EventRepo()
		recorder = e.store.TurnRepo()
	}

	e.backend = llm.NewBackendFromEnv(ctx, llm.BackendOptions{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
		Events:   events,
		Log:      e.log,
	})

	var c cache.Cache
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			e.log.Warn("coaching cache unavailable", zap.String("address", cfg.Redis.Address), zap.Error(err))
		} else {
			r := cache.NewRedis(client)
			e.closers = append(e.closers, r.Close)
			c = r
		}
	}
	if c == nil && e.backend.HasProvider() {
		c = cache.NewMemory()
	}

	rubric := dataset.LoadRubric(cfg.Data.Rubric, e.log)
	templates := dataset.LoadTemplates(cfg.Data.Templates, e.log)

	e.scorer = evaluator.New(rubric, e.backend, e.log)
	e.coach = coach.New(templates, e.backend, c, e.log)
	e.runner = practice.New(e.bank, e.scorer, e.coach, recorder, e.log)
	return e, nil
}

// Close releases the database and cache connections.
func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}
