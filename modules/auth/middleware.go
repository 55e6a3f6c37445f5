package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"glowup-server/modules/common/apperr"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Middleware - Bearer JWT 검증 후 사용자 ID를 컨텍스트에 주입
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperr.Write(w, apperr.New(apperr.Unauthenticated, "missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apperr.Write(w, apperr.New(apperr.Unauthenticated, "invalid authorization header"))
				return
			}

			userID, err := VerifyToken(secret, parts[1])
			if err != nil {
				apperr.Write(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VerifyToken - HS256 토큰 검증, sub 클레임 반환
func VerifyToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthenticated, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.New(apperr.Unauthenticated, "invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.New(apperr.Unauthenticated, "token missing subject")
	}

	return sub, nil
}

// UserIDFromContext - 미들웨어가 주입한 사용자 ID 조회
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUserID - 테스트/내부 호출용 컨텍스트 주입
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// AdminPolicy - 운영자 ID 목록 기반 우회 판정
// 언락 오케스트레이터에 주입되어 결제 검증 단계만 건너뛴다
func AdminPolicy(adminIDs []string) func(userID string) bool {
	set := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return func(userID string) bool {
		_, ok := set[userID]
		return ok
	}
}
