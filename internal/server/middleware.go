package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sessionCookieName = "session_id"

// sessionCookie resolves the caller's session id, minting a uuid cookie on
// first contact. Handlers read the id via sessionID.
func sessionCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetCookie(sessionCookieName, id, 0, "/", "", false, true)
		}
		c.Set(sessionCookieName, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCookieName)
}

// requestLogger emits one structured log line per request, at warn for
// client errors and error for server errors.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		evt := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = logger.Error()
		case status >= http.StatusBadRequest:
			evt = logger.Warn()
		}
		evt.Int("status", status).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}
