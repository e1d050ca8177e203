package middleware

import (
	"context"
	"errors"
	"strings"

	"viemind/models"
	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// TokenVerifier resolves a bearer token to its user
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the user
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.FromError(c, services.ErrMissingToken)
			c.Abort()
			return
		}

		user, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserFromRequest returns the user stored by AuthMiddleware
func GetUserFromRequest(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, errors.New("user not found in request context")
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, errors.New("invalid user in request context")
	}
	return user, nil
}
