package middleware

import (
	"net/http"
	"strings"

	"github.com/daniellerochac/todo-teste/internal/api/auth"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey 是认证中间件写入 gin 上下文的用户对象键名。
const CurrentUserKey = "currentUser"

const credentialsError = "Could not validate credentials"

// AuthMiddleware 校验 Bearer 令牌并把对应的用户记录写入上下文。
//
// 缺失或格式错误的 Authorization 头、令牌校验失败、subject 不对应任何
// 已存在用户，都会以同一条消息返回 401。
func AuthMiddleware(tokens *auth.TokenService, users auth.UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": credentialsError})
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": credentialsError})
			c.Abort()
			return
		}

		subject, err := tokens.Parse(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": credentialsError})
			c.Abort()
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": credentialsError})
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}
