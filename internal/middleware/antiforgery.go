package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/contoso/university/internal/response"
	"github.com/contoso/university/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// AntiForgeryHeader carries the token for JSON clients.
	AntiForgeryHeader = "X-CSRF-Token"
	// AntiForgeryField carries the token in form posts.
	AntiForgeryField = "csrf_token"
)

// TokenValidator checks and consumes an anti-forgery token.
type TokenValidator interface {
	Validate(ctx context.Context, token string) error
}

// RequireAntiForgery rejects POST requests whose anti-forgery token is
// missing, forged, expired or already used. Other methods pass through.
func RequireAntiForgery(v TokenValidator, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "antiforgery").Logger()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		token := c.GetHeader(AntiForgeryHeader)
		if token == "" {
			token = c.PostForm(AntiForgeryField)
		}

		if err := v.Validate(c.Request.Context(), token); err != nil {
			if errors.Is(err, service.ErrAntiForgeryInvalid) {
				log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected anti-forgery token")
				response.AbortFail(c, http.StatusBadRequest, response.ErrAntiForgeryInvalid)
				return
			}
			log.Error().Err(err).
				Str("request_id", c.GetString(response.ContextKeyRequestID)).
				Msg("Anti-forgery check failed")
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Next()
	}
}
