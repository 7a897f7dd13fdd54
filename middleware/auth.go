// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Hata varsa next çağrılmaz ve request burada durur.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/handlers"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
)

// AuthMiddleware, token doğrulama ve presence güncelleme middleware'ı.
type AuthMiddleware struct {
	tokens   services.TokenService
	presence services.PresenceService
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(tokens services.TokenService, presence services.PresenceService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, presence: presence}
}

// Require, token zorunlu kılan middleware.
// Token yoksa veya geçersizse → 401 Unauthorized.
//
// HTTP header formatı: Authorization: Bearer <token>
//
//  1. Header'dan token'ı al ve doğrula
//  2. Kimliğin last_active'ini handler'dan ÖNCE güncelle
//  3. models.Caller'ı context'e koy, next'i çağır
//
// Presence yazımı başarısız olursa istek yine de devam eder; hata loglanır.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		if err := m.presence.Touch(r.Context(), claims.Username); err != nil {
			log.Warn().Str("component", "presence").Str("user", claims.Username).Err(err).Msg("touch failed")
		}

		caller := models.Caller{Username: claims.Username, Role: claims.Role}
		ctx := context.WithValue(r.Context(), handlers.CallerContextKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
