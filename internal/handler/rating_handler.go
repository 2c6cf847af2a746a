package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Ridakhan15/movie-recommender/internal/service"

	"github.com/go-chi/chi/v5"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(s *service.RatingService) *RatingHandler { return &RatingHandler{svc: s} }

type ratingRequest struct {
	MovieID int     `json:"movieId"`
	Rating  float64 `json:"rating"`
}

// @Summary Crear/actualizar rating propio
// @Tags ratings
// @Security BearerAuth
// @Accept json
// @Param body body ratingRequest true "rating"
// @Success 204
// @Router /me/ratings [post]
func (h *RatingHandler) PostMyRating(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	h.postRating(w, r, userID)
}

// @Summary Listar ratings propios
// @Tags ratings
// @Security BearerAuth
// @Produce json
// @Router /me/ratings [get]
func (h *RatingHandler) GetMyRatings(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	h.getRatings(w, r, userID)
}

// @Summary Crear/actualizar rating de un usuario (admin)
// @Tags ratings
// @Security BearerAuth
// @Accept json
// @Param id path int true "userId"
// @Param body body ratingRequest true "rating"
// @Success 204
// @Router /users/{id}/ratings [post]
func (h *RatingHandler) PostRating(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.postRating(w, r, userID)
}

// @Summary Listar ratings de un usuario (admin)
// @Tags ratings
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Router /users/{id}/ratings [get]
func (h *RatingHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.getRatings(w, r, userID)
}

func (h *RatingHandler) postRating(w http.ResponseWriter, r *http.Request, userID int) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.AddOrUpdate(r.Context(), userID, req.MovieID, req.Rating); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RatingHandler) getRatings(w http.ResponseWriter, r *http.Request, userID int) {
	list, err := h.svc.GetByUser(r.Context(), userID, 100, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
