package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// JWTAuth JWT authentication middleware. Only access tokens are accepted.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Parse Bearer token
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		// 3. Verify token
		claims, err := jwtManager.VerifyAccessToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", err)
			}
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil || userID == 0 {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", common.ErrInvalidToken)
			c.Abort()
			return
		}

		// 4. Store user info in context
		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// GetUserID extracts the authenticated user id from context
func GetUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok && id > 0
}

// GetEmail extracts the authenticated email from context
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}
