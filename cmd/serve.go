package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Anwar-Qureshi/SkillBridge/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the practice engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := buildEngine(ctx, cmd, engineOptions{persist: true})
		if err != nil {
			return err
		}
		defer e.Close()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			e.cfg.Server.Port = port
		}
		if e.cfg.Log.Env == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		server := api.NewServer(e.bank, e.scorer, e.coach, e.runner, e.log)
		srv := &http.Server{
			Addr:         e.cfg.Addr(),
			Handler:      server.Routes(),
			ReadTimeout:  e.cfg.Server.ReadTimeout,
			WriteTimeout: e.cfg.Server.WriteTimeout,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			e.log.Info("listening", zap.String("addr", srv.Addr), zap.String("backend", e.backend.Describe()))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
		if ttl := e.cfg.Server.SessionIdleTTL; ttl > 0 {
			g.Go(func() error {
				server.SweepSessions(gctx, ttl, sweepInterval(ttl))
				return nil
			})
		}
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
			defer cancel()
			e.log.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

// sweepInterval checks a few times per TTL, at most once a minute.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Minute)
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Listen port (overrides server.port)")
}
