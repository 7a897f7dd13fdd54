// Package handlers: ReportHandler: kullanıcı tarafı moderasyon endpoint'leri.
//
//	POST /api/reports               → File
//	GET  /api/bans/{kind}/{id}      → BanStatus
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
)

// ReportHandler, rapor dosyalama ve ban durumu endpoint'leri.
type ReportHandler struct {
	moderation services.ModerationService
}

// NewReportHandler, constructor.
func NewReportHandler(moderation services.ModerationService) *ReportHandler {
	return &ReportHandler{moderation: moderation}
}

// File godoc
// POST /api/reports
// Body: { "kind": "user", "target_id": "bob", "title": "", "description": "...", "severity": "high" }
func (h *ReportHandler) File(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req models.FileReportInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.moderation.FileReport(r.Context(), caller.Username, req)
	if err != nil {
		if report == nil {
			pkg.Error(w, err)
			return
		}
		log.Warn().Str("component", "http").Str("report_id", report.ID).Err(err).Msg("report filed with notification errors")
	}

	pkg.JSON(w, http.StatusCreated, report)
}

// banStatus, BanStatus yanıtı.
type banStatus struct {
	Banned  bool               `json:"banned"`
	Windows []models.BanWindow `json:"windows"`
}

// BanStatus godoc
// GET /api/bans/{kind}/{id}
// Response: { banned: true, windows: [{ warning_id, start, end }] }
func (h *ReportHandler) BanStatus(w http.ResponseWriter, r *http.Request) {
	kind := models.TargetKind(r.PathValue("kind"))

	banned, windows, err := h.moderation.IsBanned(r.Context(), kind, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, banStatus{Banned: banned, Windows: windows})
}
