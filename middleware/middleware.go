package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const HEADER_REQUEST_ID = "X-Request-Id"

// RequestIdGenerator - Tags every request with an id for log correlation.
// Reuses the caller's id when one is already present on the header.
func RequestIdGenerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := strings.TrimSpace(c.Request.Header.Get(HEADER_REQUEST_ID))
		if requestId == "" {
			requestId = uuid.New().String()
		}
		c.Writer.Header().Set(HEADER_REQUEST_ID, requestId)

		c.Next()
	}
}

// Logger - Logs method, path, status and latency for every request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logCtx := log.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.Writer.Header().Get(HEADER_REQUEST_ID),
		})

		if c.Writer.Status() >= http.StatusInternalServerError {
			logCtx.Error("Request failed.")
		} else {
			logCtx.Info("Request processed.")
		}
	}
}

// Recovery - Recovers panics on handlers and responds with a json error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{"panic": r, "path": c.Request.URL.Path}).
					Error("Recovered from panic on request.")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Internal server error"})
			}
		}()

		c.Next()
	}
}
