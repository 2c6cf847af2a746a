package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Ridakhan15/movie-recommender/internal/service"

	"github.com/go-chi/chi/v5"
)

// ModelAdminHandler expone el estado del registry de modelos y el
// disparo de reentrenos.
type ModelAdminHandler struct {
	svc *service.ModelAdminService
}

func NewModelAdminHandler(svc *service.ModelAdminService) *ModelAdminHandler {
	return &ModelAdminHandler{svc: svc}
}

// @Summary Resumen de modelos publicados y cola de tareas
// @Tags admin-models
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.ModelsSummary
// @Router /admin/models/summary [get]
func (h *ModelAdminHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type retrainRequest struct {
	// full_retrain | incremental_update
	Kind string `json:"kind"`
	// algoritmo puntual; vacío = ciclo completo
	Algorithm string `json:"algorithm,omitempty"`
}

// @Summary Disparar reentreno on-demand contra el trainer
// @Tags admin-models
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body retrainRequest true "solicitud"
// @Router /admin/models/retrain [post]
func (h *ModelAdminHandler) PostRetrain(w http.ResponseWriter, r *http.Request) {
	var req retrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Kind == "" {
		req.Kind = "full_retrain"
	}

	ack, err := h.svc.TriggerRetrain(r.Context(), req.Kind, req.Algorithm, UserIDFromContext(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}

// @Summary Listar tareas de actualización de modelos
// @Tags admin-models
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending | processing | completed | failed"
// @Param limit query int false "máximo de tareas (default 50)"
// @Param offset query int false "desplazamiento"
// @Router /admin/models/tasks [get]
func (h *ModelAdminHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.svc.ListTasks(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Utilidad pequeña para respuestas JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Helper para montar rutas en main.go
func MountModelAdminRoutes(r chi.Router, h *ModelAdminHandler) {
	r.Route("/admin/models", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Post("/retrain", h.PostRetrain)
		r.Get("/tasks", h.GetTasks)
	})
}
