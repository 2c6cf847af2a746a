package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler { return &MovieHandler{svc: s} }

// @Summary Detalle de película
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Success 200 {object} models.MovieDoc
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	movie, err := h.svc.GetByID(r.Context(), movieID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if movie == nil {
		http.Error(w, "movie no encontrada", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// @Summary Buscar películas por título
// @Tags movies
// @Produce json
// @Param q query string false "texto a buscar"
// @Param limit query int false "máximo (default 20)"
// @Param offset query int false "desplazamiento"
// @Router /movies/search [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary Crear película (admin)
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.MovieCreateRequest true "película"
// @Success 201 {object} models.MovieDoc
// @Router /admin/movies [post]
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req models.MovieCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

// @Summary Actualizar película (admin)
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "movieId"
// @Param body body models.MovieCreateRequest true "campos a actualizar"
// @Success 200 {object} models.MovieDoc
// @Router /admin/movies/{id} [put]
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var req models.MovieCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.svc.Update(r.Context(), movieID, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}
