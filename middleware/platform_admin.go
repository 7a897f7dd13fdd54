// Package middleware: PlatformAdminMiddleware, yönetici yetkisi kontrolü.
//
// AuthMiddleware'den SONRA çalışır; context'te Caller mevcuttur.
// Rolü admin değilse → 403 Forbidden.
//
// Kullanım:
//
//	authMw.Require(platformAdminMw.Require(http.HandlerFunc(adminHandler.ListReports)))
package middleware

import (
	"net/http"

	"github.com/akinalp/relay/handlers"
	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
)

// PlatformAdminMiddleware, yönetici yetkisi zorunlu kılan middleware.
type PlatformAdminMiddleware struct{}

// NewPlatformAdminMiddleware, constructor.
func NewPlatformAdminMiddleware() *PlatformAdminMiddleware {
	return &PlatformAdminMiddleware{}
}

// Require, context'teki Caller yönetici değilse 403 döner.
func (m *PlatformAdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := r.Context().Value(handlers.CallerContextKey).(models.Caller)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "caller not found in context")
			return
		}

		if !caller.IsAdmin() {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
