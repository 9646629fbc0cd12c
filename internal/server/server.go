// Package server exposes the quiz game over HTTP: JSON endpoints for the
// challenge round trip, a health probe, prometheus metrics and the image
// directory.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/session"
)

// Config carries the server's deployment knobs.
type Config struct {
	// ImageDir is served under /images and named in image-related error
	// messages.
	ImageDir string
}

// Server wires the session service into a gin router.
type Server struct {
	svc *session.Service
	cfg Config
	log zerolog.Logger
}

// New creates the server.
func New(svc *session.Service, cfg Config, logger zerolog.Logger) *Server {
	return &Server{svc: svc, cfg: cfg, log: logger}
}

// Router builds the HTTP routes. The caller owns the http.Server lifecycle
// and the gin mode.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/images", s.cfg.ImageDir)

	api := r.Group("/api", sessionCookie())
	api.GET("/challenge", s.getChallenge)
	api.POST("/soma", s.soma)
	api.POST("/answer", s.submitAnswer)
	api.POST("/hint", s.hint)
	api.POST("/feedback", s.feedback)
	api.GET("/state", s.state)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
