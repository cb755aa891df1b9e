package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/softjobs/softjobs-backend/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

const ctxEmailKey = "auth.email"

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ExtractToken(c.GetHeader("Authorization"))

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			code, message := tokenFailure(err)

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    code,
					"message": message,
				},
			})
			return
		}

		// Stash the verified identity on the context
		c.Set(ctxEmailKey, claims.Email)

		c.Next()
	}
}

// ExtractToken accepts the header value either as "Bearer <token>" or as a
// bare token.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)

	if strings.HasPrefix(header, "Bearer") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	}

	return header
}

func tokenFailure(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return "token_missing", "Access token required"
	case errors.Is(err, auth.ErrTokenExpired):
		return "token_expired", "Token expired. Please log in again."
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "token_not_yet_valid", "Token is not valid yet"
	case errors.Is(err, auth.ErrTokenSignature):
		return "token_invalid_signature", "Invalid token signature"
	case errors.Is(err, auth.ErrTokenMissingEmail):
		return "token_missing_claim", "Token carries no identity"
	default:
		return "token_malformed", "Invalid or malformed token"
	}
}

// Helpers so handlers and tests don't need to know the magic keys.

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func WithEmail(c *gin.Context, email string) {
	c.Set(ctxEmailKey, email)
}
