package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
)

// maxPresenceQuery, tek istekte sorgulanabilecek kimlik sayısı.
const maxPresenceQuery = 200

// PresenceHandler, çevrimiçi durumu sorgulama endpoint'i.
type PresenceHandler struct {
	presence services.PresenceService
	window   time.Duration
}

// NewPresenceHandler, constructor. window config'teki PRESENCE_ONLINE_WINDOW'dur.
func NewPresenceHandler(presence services.PresenceService, window time.Duration) *PresenceHandler {
	return &PresenceHandler{presence: presence, window: window}
}

// Online godoc
// GET /api/presence?handles=alice,bob
// Response: { "alice": true, "bob": false }
func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	var handles []string
	for _, s := range strings.Split(r.URL.Query().Get("handles"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			handles = append(handles, s)
		}
	}

	if len(handles) == 0 {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "handles query parameter is required")
		return
	}
	if len(handles) > maxPresenceQuery {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "too many handles")
		return
	}

	online, err := h.presence.OnlineAmong(r.Context(), handles, h.window)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, online)
}
