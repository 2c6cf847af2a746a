package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

// @Summary Recomendaciones propias (variante del experimento)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	h.serve(w, r, userID, "")
}

// @Summary Recomendaciones de un usuario (admin)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param algorithm query string false "variante explícita (debug)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.serve(w, r, userID, r.URL.Query().Get("algorithm"))
}

func (h *RecommendHandler) serve(w http.ResponseWriter, r *http.Request, userID int, algorithm string) {
	refresh := r.URL.Query().Get("refresh") == "true"

	items, variant, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:    userID,
		Algorithm: algorithm,
		Refresh:   refresh,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":    userID,
		"algorithm": variant,
		"items":     items,
	})
}

// @Summary Historial de recomendaciones servidas
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param limit query int false "máximo de entradas (default 10)"
// @Router /users/{id}/recommendations/history [get]
func (h *RecommendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	limit := int64(10)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	list, err := h.svc.History(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param algorithm query string false "variante explícita (debug)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	algorithm := r.URL.Query().Get("algorithm")
	refresh := r.URL.Query().Get("refresh") == "true"

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, calculando recomendaciones…",
	})

	items, variant, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:    userID,
		Algorithm: algorithm,
		Refresh:   refresh,
	})
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"algorithm":   variant,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
