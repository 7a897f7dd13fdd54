// Package handlers, HTTP endpoint'lerini barındırır.
//
// Thin handler prensibi: Parse → Service → Response.
// İş kuralları service katmanındadır; handler sadece request'i çözer,
// service'i çağırır ve pkg.JSON / pkg.Error ile yanıt yazar.
package handlers

import (
	"net/http"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
)

// contextKey, context'te değer taşımak için kullanılan özel key tipi.
// String key kullanmak başka paketlerle çakışabilir.
type contextKey string

// CallerContextKey, AuthMiddleware'in doğrulanmış kimliği koyduğu key.
const CallerContextKey contextKey = "caller"

// callerFrom, context'teki kimliği döner. Yoksa 401 yazar ve false döner.
func callerFrom(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller, ok := r.Context().Value(CallerContextKey).(models.Caller)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "caller not found in context")
		return models.Caller{}, false
	}
	return caller, true
}

// AuthHandler, token'dan çözülen kimliği client'a gösterir.
type AuthHandler struct{}

// NewAuthHandler, constructor.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me godoc
// GET /api/users/me
// Token'daki kimliği döner: { username, role }.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	pkg.JSON(w, http.StatusOK, caller)
}
