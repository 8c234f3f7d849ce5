package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gifts-backend/internal/models"
	"gifts-backend/internal/services"
	"gifts-backend/pkg/utils"
)

type CustomerHandler struct {
	Service *services.CustomerService
	Bills   *services.BillService
}

func NewCustomerHandler(s *services.CustomerService, bills *services.BillService) *CustomerHandler {
	return &CustomerHandler{Service: s, Bills: bills}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Service.CreateCustomer(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	customer, err := h.Service.GetCustomer(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "customer not found")
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

// Search resolves a customer by phone (exact) or name (partial). Phone wins
// when both are given.
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		customer, err := h.Service.FindByPhone(r.Context(), phone)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if customer == nil {
			utils.JSON(w, http.StatusOK, []*models.Customer{})
			return
		}
		utils.JSON(w, http.StatusOK, []*models.Customer{customer})
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		utils.Error(w, http.StatusBadRequest, "phone or name parameter is required")
		return
	}

	customers, err := h.Service.FindByName(r.Context(), name)
	if err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	customers, err := h.Service.TopCustomers(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to retrieve top customers")
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Service.UpdateCustomer(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

// CustomerBills lists a customer's purchase history, newest first.
func (h *CustomerHandler) CustomerBills(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	bills, err := h.Bills.ListCustomerBills(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to retrieve bills")
		return
	}
	utils.JSON(w, http.StatusOK, bills)
}
