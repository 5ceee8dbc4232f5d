package handler

import (
	"net/http"
	"strings"

	"eventhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextUserIDKey = "userID"

// RequireAuth 解析 Authorization: Bearer <token>，把 user id 放進 gin context。
// 沒帶、格式錯、token 無效或過期都回 401。
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		token, err := uuid.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		userID, err := authService.Authenticate(c, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID 取出 RequireAuth 放進來的 user id
func CurrentUserID(c *gin.Context) (int, bool) {
	val, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int)
	return userID, ok
}
