package handlers

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jaspire-api/internal/logger"
)

// LogRequest logs request bodies outside of release mode. Bodies are re-read
// into the request so downstream binding still works.
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
				logger.Debug("Incoming request",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("body", body),
				)
			}
		}
		c.Next()
	}
}
