package middleware

import (
	"context"
	"time"

	"streamlay/pkg/logger"
	"streamlay/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the id back to the caller for correlation.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an id, propagates it
// through the request context, and logs the request outcome.
func RequestIDMiddleware(ctxLogger *logger.ContextLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}

		ctx := context.WithValue(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		ctxLogger.LogRequest(ctx, c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
