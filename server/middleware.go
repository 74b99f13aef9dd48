package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jokeoa/goigaming/domain"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// TokenValidator is the slice of the auth service the transport needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (domain.TokenClaims, error)
}

// RequireAuth validates the bearer token and stashes the caller's identity in
// the gin context.
func RequireAuth(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(domain.ErrUnauthorized))
			return
		}
		claims, err := auth.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ctxUserID)
	userID, _ := id.(uuid.UUID)
	return userID
}

func currentUsername(c *gin.Context) string {
	name, _ := c.Get(ctxUsername)
	username, _ := name.(string)
	return username
}
