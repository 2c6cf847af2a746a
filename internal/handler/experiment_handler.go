package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

// Dependencias del handler como interfaces chicas: los services las
// implementan y los tests las llenan en memoria.
type experimentLedger interface {
	AssignedAlgorithm(ctx context.Context, userID int) (string, error)
	RecordClicked(ctx context.Context, userID int, variant string) error
	ListExperiments(ctx context.Context, limit, offset int) ([]models.ExperimentDoc, error)
	PerformanceDashboard(ctx context.Context) (map[string]models.AlgorithmStats, error)
}

type movieFinder interface {
	GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error)
}

type ExperimentHandler struct {
	svc    experimentLedger
	movies movieFinder
}

func NewExperimentHandler(s experimentLedger, m movieFinder) *ExperimentHandler {
	return &ExperimentHandler{svc: s, movies: m}
}

type clickRequest struct {
	MovieID int `json:"movieId"`
}

// @Summary Registrar click sobre una recomendación servida
// @Tags experiments
// @Security BearerAuth
// @Accept json
// @Param body body clickRequest true "click"
// @Success 204
// @Failure 400 {string} string "película inexistente"
// @Router /me/recommendations/click [post]
func (h *ExperimentHandler) PostMyClick(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// un click sobre una película que no existe no puede entrar al ledger
	movie, err := h.movies.GetByID(r.Context(), req.MovieID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if movie == nil {
		http.Error(w, fmt.Sprintf("movie %d no encontrada", req.MovieID), http.StatusBadRequest)
		return
	}

	// el click se atribuye a la variante vigente del usuario
	variant, err := h.svc.AssignedAlgorithm(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.svc.RecordClicked(r.Context(), userID, variant); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Variante asignada del usuario autenticado
// @Tags experiments
// @Security BearerAuth
// @Produce json
// @Router /me/experiment [get]
func (h *ExperimentHandler) GetMyAssignment(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	variant, err := h.svc.AssignedAlgorithm(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":            userID,
		"assignedAlgorithm": variant,
	})
}

// @Summary Filas del ledger de experimentos (admin)
// @Tags experiments
// @Security BearerAuth
// @Produce json
// @Param limit query int false "máximo de filas (default 50)"
// @Param offset query int false "desplazamiento"
// @Router /admin/experiments [get]
func (h *ExperimentHandler) GetExperiments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	list, err := h.svc.ListExperiments(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary Dashboard de performance por algoritmo (admin)
// @Tags experiments
// @Security BearerAuth
// @Produce json
// @Router /admin/experiments/performance [get]
func (h *ExperimentHandler) GetPerformanceDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.PerformanceDashboard(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
