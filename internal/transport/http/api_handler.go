package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/budd9442/edify.lk-sub000/internal/app"
)

// APIHandler serves the JSON read endpoints next to the WebSocket.
type APIHandler struct {
	service *app.GamificationService
	logger  *zap.Logger
}

func NewAPIHandler(service *app.GamificationService, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{service: service, logger: logger}
}

// Leaderboard handles GET /api/leaderboard?articleId=&limit=.
func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	articleID := r.URL.Query().Get("articleId")
	if articleID == "" {
		http.Error(w, "missing articleId", http.StatusBadRequest)
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.service.Leaderboard(r.Context(), articleID, limit)
	if err != nil {
		h.logger.Error("leaderboard read failed", zap.String("article_id", articleID), zap.Error(err))
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// Badges handles GET /api/badges?userId=.
func (h *APIHandler) Badges(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	badges, err := h.service.Badges(r.Context(), userID)
	if err != nil {
		h.logger.Error("badge read failed", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "badges unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, badges)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
