package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/softjobs/softjobs-backend/internal/http/middlewares"
)

const requestIDHeader = "X-Request-Id"

func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)

		if id == "" {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)

		ctx.Set("request_id", id)

		ctx.Next()

	}
}

// RequestLogger logs one line per request. Bodies are never logged, so
// passwords cannot leak; bearer tokens are truncated.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		method := ctx.Request.Method

		ctx.Next()

		lat := time.Since(start)
		status := ctx.Writer.Status()

		reqID, _ := ctx.Get("request_id")

		attrs := []any{
			"method", method,
			"path", path,
			"status", status,
			"latency_ms", lat.Milliseconds(),
			"request_id", reqID,
		}

		if header := ctx.GetHeader("Authorization"); header != "" {
			attrs = append(attrs, "token", truncateToken(middlewares.ExtractToken(header)))
		}

		log.Info("request", attrs...)
	}
}

func truncateToken(raw string) string {
	if len(raw) > 12 {
		return raw[:12] + "..."
	}

	return raw
}
