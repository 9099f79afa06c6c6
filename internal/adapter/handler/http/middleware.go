package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Identity is asserted by the fronting gateway.
const userHeaderKey = "x-user-id"
const idempotencyHeaderKey = "Idempotency-Key"
const userPayloadKey = "user_id"

// RequestMetrics records per-route traffic and serves the scrape endpoint.
type RequestMetrics interface {
	ObserveRequest(handler string, status int, elapsed time.Duration)
	Handler() http.Handler
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		logger.Info("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Int("size", ctx.Writer.Size()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func requestMetrics(metrics RequestMetrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, ctx.Writer.Status(), time.Since(start))
	}
}

func userScope(h *Handler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := strings.TrimSpace(ctx.GetHeader(userHeaderKey))
		if userID == "" {
			h.handleAbort(ctx, fmt.Errorf("%w: %s header is required", domain.ErrValidation, userHeaderKey))
			return
		}

		ctx.Set(userPayloadKey, userID)

		ctx.Next()
	}
}

func getUserID(ctx *gin.Context) string {
	return ctx.MustGet(userPayloadKey).(string)
}
