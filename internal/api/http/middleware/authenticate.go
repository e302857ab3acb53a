package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studydeck/studydeck-server/internal/api/http/httpctx"
	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
)

// Authenticator resolves bearer access tokens to users.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.User, error)
}

// Authenticate validates bearer tokens and injects the user into the request
// context.
type Authenticate struct {
	auth   Authenticator
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(auth Authenticator, logger *logger.Logger) *Authenticate {
	return &Authenticate{auth: auth, logger: logger}
}

// Handle parses the Authorization header, validates the token, and stores the
// user on the context. Requests without a valid token are rejected.
func (m *Authenticate) Handle(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		abortWithAPIError(c, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	user, err := m.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		var apiErr *apierrors.APIError
		if !errors.As(err, &apiErr) {
			m.logger.Error("Authenticate middleware: unexpected error",
				"error", err.Error())
			apiErr = apierrors.NewErrInvalidAuthorizationToken()
		}
		abortWithAPIError(c, apiErr)
		return
	}

	httpctx.SetUser(c, user)
	c.Next()
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func abortWithAPIError(c *gin.Context, apiErr *apierrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": apiErr.Message,
		"code":  apiErr.Code,
	})
}
