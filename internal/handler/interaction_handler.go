package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/service"
)

type InteractionHandler struct {
	svc *service.InteractionService
}

func NewInteractionHandler(s *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: s}
}

type interactionRequest struct {
	MovieID       int    `json:"movieId"`
	Type          string `json:"type"`
	WatchProgress int    `json:"watchProgress"`
}

// @Summary Registrar interacción implícita (view, watchlist, etc.)
// @Tags interactions
// @Security BearerAuth
// @Accept json
// @Param body body interactionRequest true "interacción"
// @Success 204
// @Router /me/interactions [post]
func (h *InteractionHandler) PostMyInteraction(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := &models.InteractionDoc{
		UserID:        userID,
		MovieID:       req.MovieID,
		Type:          req.Type,
		WatchProgress: req.WatchProgress,
	}
	if err := h.svc.Track(r.Context(), doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
