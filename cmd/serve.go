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

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may run after SIGTERM.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz game over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := buildApp(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		gin.SetMode(gin.ReleaseMode)
		router := server.New(deps.svc, server.Config{ImageDir: deps.cfg.ImageDir}, deps.log).Router()

		srv := &http.Server{
			Addr:    deps.cfg.Addr,
			Handler: router,
		}

		go func() {
			deps.log.Info().Str("addr", deps.cfg.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				deps.log.Error().Err(err).Msg("server stopped")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		deps.log.Info().Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}
