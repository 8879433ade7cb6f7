package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// FallbackActorID attributes unauthenticated mutations in the audit trail.
const FallbackActorID = "system"

// ActorMiddleware resolves the acting user for audit attribution from the
// X-User-ID header. Authentication is delegated to the deployment's edge; the
// engine only records who asked.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader("X-User-ID")
		if actorID == "" {
			actorID = FallbackActorID
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, actorID)

		// Enrich the request logger so every line carries the actor
		enrichedLogger := GetLoggerFromCtx(ctx).With(slog.String("user_id", actorID))
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
