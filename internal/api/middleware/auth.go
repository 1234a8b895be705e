package middleware

import (
	"souschef-api/internal/core/auth"

	"github.com/gin-gonic/gin"
)

// ContextUserID gin context 中存放已驗證 user id 的鍵
const ContextUserID = "user_id"

// Auth 解析 Authorization header 的中間件。
// 驗證失敗不擋請求：匿名使用者仍可擷取，只是結果不落庫綁定身分
func Auth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := verifier.UserIDFromHeader(c.GetHeader("Authorization")); userID != "" {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}
