package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"neurosurg/learning-app/internal/service"
)

// Constants for context keys
const (
	ContextUserIDKey      = "userID"
	ContextUsernameKey    = "username"
	ContextDisplayNameKey = "displayName"
	ContextUserRoleKey    = "userRole"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
// Requests without a valid bearer token are rejected with 401.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, jwtSecret)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		setUserContext(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware populates the user context when a valid
// token is present and silently continues when it is not.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromRequest(c, jwtSecret); err == nil {
			setUserContext(c, claims)
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, jwtSecret string) (*service.TokenClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("authentication required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("authorization header format must be Bearer {token}")
	}

	claims := &service.TokenClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, errors.New("invalid or expired token")
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token or missing claims")
	}
	return claims, nil
}

func setUserContext(c *gin.Context, claims *service.TokenClaims) {
	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextUsernameKey, claims.Username)
	c.Set(ContextDisplayNameKey, claims.DisplayName)
	c.Set(ContextUserRoleKey, claims.Role)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (int, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return id, nil
}
