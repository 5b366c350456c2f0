package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tiendarec-tf/internal/engine"
	"tiendarec-tf/internal/service"

	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

// @Summary Recomendaciones híbridas
// @Description Acepta a lo sumo uno de user_id / product_id / customer_name / category.
// @Tags recommend
// @Accept json
// @Produce json
// @Param body body service.RecRequest true "parámetros (todos opcionales)"
// @Success 200 {object} service.RecResult
// @Failure 503 {object} map[string]string
// @Router /recommendations [post]
func (h *RecommendHandler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req service.RecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Recommend(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		// la única falla que sube del motor es "no disponible"
		if errors.Is(err, engine.ErrUnavailable) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(res)
}

// @Summary Historial de recomendaciones del usuario autenticado
// @Tags recommend
// @Produce json
// @Param limit query int false "máximo de entradas (default 20)"
// @Success 200 {array} models.Recommendation
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hist, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(hist)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones por WebSocket
// @Description Igual que POST /recommendations pero con frames de progreso.
// @Tags recommend
// @Param user_id query string false "id de usuario del dataset"
// @Param product_id query string false "id de producto"
// @Param customer_name query string false "nombre de cliente (substring)"
// @Param category query string false "categoría"
// @Router /ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "no se pudo abrir WebSocket", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	q := r.URL.Query()
	req := service.RecRequest{
		UserID:       q.Get("user_id"),
		ProductID:    q.Get("product_id"),
		CustomerName: q.Get("customer_name"),
		Category:     q.Get("category"),
	}

	_ = conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, consultando el motor…",
	})

	res, err := h.svc.Recommend(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	_ = conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"records":     res.Records,
		"summary":     res.Summary,
		"generatedAt": time.Now(),
	})
}
