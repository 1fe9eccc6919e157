package middleware

import (
	"context"
	"net/http"

	"github.com/contoso/university/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionOpener binds a database session to a request context.
// *database.Store is the production implementation.
type SessionOpener interface {
	Open(ctx context.Context) (context.Context, func(), error)
}

// SessionScope opens one database session per request and releases it once
// the rest of the chain has returned, whatever the outcome.
func SessionScope(store SessionOpener, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "session_scope").Logger()

	return func(c *gin.Context) {
		ctx, release, err := store.Open(c.Request.Context())
		if err != nil {
			log.Error().Err(err).
				Str("request_id", c.GetString(response.ContextKeyRequestID)).
				Msg("Failed to open database session")
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		defer release()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
