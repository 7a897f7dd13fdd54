// Package handlers: AdminHandler, moderasyon paneli endpoint'leri.
//
// Bu handler sadece yöneticiler tarafından erişilebilir.
// PlatformAdminMiddleware tarafından korunur.
//
// Route'lar:
//
//	GET    /api/admin/warnings               → ListWarnings
//	POST   /api/admin/warnings               → IssueWarning
//	DELETE /api/admin/bans/{kind}/{id}       → LiftBan
//	GET    /api/admin/reports                → ListReports (?status=pending|resolved)
//	POST   /api/admin/reports/{id}/resolve   → ResolveReport
//	GET    /api/ws/connections               → Connections
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
	"github.com/akinalp/relay/ws"
)

// ConnectionLister, Hub'ın anlık bağlantı görüntüsü.
type ConnectionLister interface {
	Snapshot() ws.ConnectionSnapshot
}

// AdminHandler, moderasyon endpoint'lerini yönetir.
type AdminHandler struct {
	moderation  services.ModerationService
	connections ConnectionLister
}

// NewAdminHandler, constructor.
func NewAdminHandler(moderation services.ModerationService, connections ConnectionLister) *AdminHandler {
	return &AdminHandler{moderation: moderation, connections: connections}
}

// IssueWarning: POST /api/admin/warnings
// Body: { "target_kind": "user", "target_id": "bob", "reason": "...", "report_id": "..." }
//
// Kayıt commit edildikten sonra bildirim hatası olursa yine 201 döner;
// hata sadece loglanır.
func (h *AdminHandler) IssueWarning(w http.ResponseWriter, r *http.Request) {
	var req models.IssueWarningInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	warning, err := h.moderation.IssueWarning(r.Context(), req)
	if err != nil {
		if warning == nil {
			pkg.Error(w, err)
			return
		}
		log.Warn().Str("component", "http").Str("warning_id", warning.ID).Err(err).Msg("warning committed with notification errors")
	}

	pkg.JSON(w, http.StatusCreated, warning)
}

// ListWarnings: GET /api/admin/warnings
func (h *AdminHandler) ListWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.moderation.ListWarnings(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, warnings)
}

// LiftBan: DELETE /api/admin/bans/{kind}/{id}
// Aktif ban yoksa 404.
func (h *AdminHandler) LiftBan(w http.ResponseWriter, r *http.Request) {
	kind := models.TargetKind(r.PathValue("kind"))
	targetID := r.PathValue("id")

	if err := h.moderation.LiftBan(r.Context(), kind, targetID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "ban lifted"})
}

// ListReports: GET /api/admin/reports?status=pending
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	var status *models.ReportStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.ReportStatus(s)
		status = &st
	}

	reports, err := h.moderation.ListReports(r.Context(), status)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, reports)
}

// ResolveReport: POST /api/admin/reports/{id}/resolve
// Zaten çözülmüş rapor 409 döner.
func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.moderation.ResolveReport(r.Context(), r.PathValue("id"))
	if err != nil {
		if report == nil {
			pkg.Error(w, err)
			return
		}
		log.Warn().Str("component", "http").Str("report_id", report.ID).Err(err).Msg("report resolved with notification errors")
	}

	pkg.JSON(w, http.StatusOK, report)
}

// Connections: GET /api/ws/connections
// Bağlı kullanıcıları ve admin havuzu boyutunu döner.
func (h *AdminHandler) Connections(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.connections.Snapshot())
}
