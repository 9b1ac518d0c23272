package middleware

import (
	"errors"
	"net/http"
	"strings"

	"task-tracker/internal/auth"
	"task-tracker/internal/dto"

	"github.com/gin-gonic/gin"
)

const UsernameKey = "username"

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// BearerAuth rejects requests without a valid bearer token and stores the
// token subject under UsernameKey.
func BearerAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, auth.TokenType) || strings.TrimSpace(tokenStr) == "" {
			unauthorized(c, "Authorization header must use Bearer token")
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(tokenStr))
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				unauthorized(c, "Token has expired")
				return
			}
			unauthorized(c, "Invalid token")
			return
		}

		c.Set(UsernameKey, claims.Username())
		c.Next()
	}
}

func UsernameFrom(c *gin.Context) string {
	return c.GetString(UsernameKey)
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", auth.TokenType)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, message))
}
