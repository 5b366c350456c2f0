package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tiendarec-tf/internal/engine"
	"tiendarec-tf/internal/service"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(s *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: s}
}

func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrUnavailable) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	http.Error(w, err.Error(), http.StatusNotFound)
}

// @Summary Detalle de un producto del catálogo
// @Tags products
// @Produce json
// @Param id path int true "productId"
// @Success 200 {object} engine.Item
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	item, err := h.svc.GetProduct(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(item)
}

// @Summary Productos más populares
// @Tags products
// @Produce json
// @Param n query int false "cantidad (default 10, máx 50)"
// @Success 200 {array} engine.Item
// @Router /products/top [get]
func (h *ProductHandler) Top(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	items, err := h.svc.Top(n)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// @Summary Categorías del catálogo
// @Tags products
// @Produce json
// @Success 200 {array} string
// @Router /categories [get]
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	cats, err := h.svc.Categories()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(cats)
}
