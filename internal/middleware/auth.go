package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/service"
)

// AuthMiddleware validates the bearer token and checks that its session
// still exists server-side, so a logout revokes every outstanding token.
// Unauthenticated requests get 401 with a login redirect hint; the role
// gate below answers 403 with a home redirect hint. Both are silent:
// no notification, just the redirect target.
func AuthMiddleware(jwtSecret string, sessions domain.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortRedirect(c, http.StatusUnauthorized, "Authorization header required", "/login")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			abortRedirect(c, http.StatusUnauthorized, "Bearer token required", "/login")
			return
		}
		tokenString = strings.TrimSpace(tokenString)

		token, err := jwt.ParseWithClaims(tokenString, &service.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			} else if method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortRedirect(c, http.StatusUnauthorized, "Token expired", "/login")
				return
			}
			abortRedirect(c, http.StatusUnauthorized, "Invalid token", "/login")
			return
		}

		claims, ok := token.Claims.(*service.Claims)
		if !ok || !token.Valid {
			abortRedirect(c, http.StatusUnauthorized, "Invalid token claims", "/login")
			return
		}
		if err := validateTokenClaims(claims); err != nil {
			abortRedirect(c, http.StatusUnauthorized, "Token validation failed", "/login")
			return
		}

		if _, err := sessions.GetByID(c.Request.Context(), claims.SessionID); err != nil {
			abortRedirect(c, http.StatusUnauthorized, "Session expired", "/login")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_id", claims.SessionID)
		c.Set("role", claims.Role)
	}
}

// RequireRole gates a route group on the role set by AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, exists := c.Get("role")
		if !exists || actual != role {
			abortRedirect(c, http.StatusForbidden, "Access denied", "/")
			return
		}
	}
}

func validateTokenClaims(claims *service.Claims) error {
	if claims.TokenType != "access" {
		return fmt.Errorf("invalid token type: expected access, got %s", claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return fmt.Errorf("invalid user ID")
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return fmt.Errorf("invalid session ID")
	}
	return nil
}

func abortRedirect(c *gin.Context, code int, message, redirect string) {
	c.JSON(code, gin.H{
		"error":    message,
		"redirect": redirect,
	})
	c.Abort()
}
