package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gifts-backend/internal/services"
	"gifts-backend/pkg/utils"
)

type ProductHandler struct {
	Service *services.ProductService
}

func NewProductHandler(s *services.ProductService) *ProductHandler {
	return &ProductHandler{Service: s}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	product, err := h.Service.GetProduct(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "product not found")
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		utils.Error(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	products, err := h.Service.SearchProducts(r.Context(), query)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to search products")
		return
	}
	utils.JSON(w, http.StatusOK, products)
}
