package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus-canteen/logging"
	"campus-canteen/stats-svc/internal/domain"
	"campus-canteen/stats-svc/internal/service"

	"github.com/gorilla/mux"
)

const defaultLeaderboardSize = 10

type Handler struct {
	Stats service.StatsInterface
}

func NewHandler(svc service.StatsInterface) *Handler {
	return &Handler{Stats: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/vendors/{vendorId}", h.getVendorDaily).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/leaderboard", h.getLeaderboard).Methods(http.MethodGet)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "stats-svc",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) getVendorDaily(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.VendorDaily(r.Context(), mux.Vars(r)["vendorId"], r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "stats": stats})
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, domain.ErrInvalidQuery)
			return
		}
		limit = n
	}
	ranks, err := h.Stats.Leaderboard(r.Context(), r.URL.Query().Get("date"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "vendors": ranks})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidQuery) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error(), "reason": "validation"})
		return
	}
	logging.Error().Err(err).Str("path", r.URL.Path).Msg("stats query failed")
	writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "internal error", "reason": "internal"})
}
