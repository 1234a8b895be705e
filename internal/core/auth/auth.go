package auth

import (
	"fmt"
	"strings"

	"souschef-api/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Verifier 驗證 Supabase 簽發的 JWT，取出 user id。
// 驗證失敗不報錯，視為匿名請求。
type Verifier struct {
	secret []byte
}

// NewVerifier 創建 JWT 驗證器
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// UserIDFromHeader 從 Authorization header 解析 user id；
// header 缺失或 token 無效返回空字串
func (v *Verifier) UserIDFromHeader(header string) string {
	if header == "" || len(v.secret) == 0 {
		return ""
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" {
		return ""
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil || !token.Valid {
		common.LogDebug("JWT 驗證失敗，視為匿名請求", zap.Error(err))
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	sub, _ := claims["sub"].(string)
	return sub
}
