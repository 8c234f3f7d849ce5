package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/middleware"
	"gifts-backend/internal/models"
	"gifts-backend/internal/services"
	"gifts-backend/pkg/utils"
)

// BillingHandler exposes the live checkout session endpoints used by the
// counter terminals.
type BillingHandler struct {
	Sessions  *services.SessionManager
	Products  *services.ProductService
	Customers *services.CustomerService
	Checkout  *services.CheckoutService
}

func NewBillingHandler(sessions *services.SessionManager, products *services.ProductService,
	customers *services.CustomerService, checkout *services.CheckoutService) *BillingHandler {
	return &BillingHandler{
		Sessions:  sessions,
		Products:  products,
		Customers: customers,
		Checkout:  checkout,
	}
}

// sessionView is the JSON shape of a live session: full state plus the
// freshly computed totals.
type sessionView struct {
	ID           string                  `json:"id"`
	Items        []models.BillItem       `json:"items"`
	Discounts    []models.Discount       `json:"discounts"`
	Payments     []models.PaymentDetails `json:"payments"`
	Calculations models.BillCalculations `json:"calculations"`
	Customer     *models.Customer        `json:"customer,omitempty"`
	Status       string                  `json:"status"`
}

func viewOf(s *billing.Session) sessionView {
	return sessionView{
		ID:           s.ID,
		Items:        s.Items(),
		Discounts:    s.Discounts(),
		Payments:     s.Payments(),
		Calculations: s.Calculations(),
		Customer:     s.Customer(),
		Status:       s.PaymentStatus(),
	}
}

func (h *BillingHandler) session(w http.ResponseWriter, r *http.Request) (*billing.Session, bool) {
	session, err := h.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}

// CreateSession opens a new checkout session for the logged-in operator.
func (h *BillingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var operatorID *int
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		operatorID = &id
	}
	session := h.Sessions.Create(operatorID)
	utils.JSON(w, http.StatusCreated, viewOf(session))
}

func (h *BillingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Clear()
	h.Sessions.Discard(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

// AddItem resolves the product, runs the stock guard, and appends the line.
func (h *BillingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.AddBillItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Products.ResolveForBill(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}

	if _, err := session.AddItem(product.ID, product.Name, req.Quantity,
		product.UnitPrice, product.TaxRate, req.Variant, req.Note); err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.RemoveItem(mux.Vars(r)["itemId"])
	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session.UpdateQuantity(mux.Vars(r)["itemId"], req.Quantity)
	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) AddDiscount(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.AddDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Kind {
	case models.DiscountPercentage, models.DiscountFixed, models.DiscountCoupon, models.DiscountLoyalty:
	default:
		utils.Error(w, http.StatusBadRequest, "unknown discount kind")
		return
	}

	session.AddDiscount(models.Discount{
		Kind:        req.Kind,
		Value:       req.Value,
		Code:        req.Code,
		Description: req.Description,
		MinOrder:    req.MinOrder,
		ExpiresAt:   req.ExpiresAt,
		Cap:         req.Cap,
	})
	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.RemoveDiscount(mux.Vars(r)["discountId"])
	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := session.AddPayment(req.Method, req.Amount, req.Reference); err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.RemovePayment(mux.Vars(r)["paymentId"])
	utils.JSON(w, http.StatusOK, viewOf(session))
}

// AttachCustomer links a known customer to the session by id.
func (h *BillingHandler) AttachCustomer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		CustomerID int `json:"customer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Customers.GetCustomer(r.Context(), req.CustomerID)
	if err != nil {
		utils.Error(w, errorStatus(err), "customer not found")
		return
	}

	session.AttachCustomer(customer)
	utils.JSON(w, http.StatusOK, viewOf(session))
}

// DetachCustomer reverts the session to a walk-in sale.
func (h *BillingHandler) DetachCustomer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.AttachCustomer(nil)
	utils.JSON(w, http.StatusOK, viewOf(session))
}

func (h *BillingHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session.SetNotes(req.Notes)
	utils.JSON(w, http.StatusOK, viewOf(session))
}

// FinalizeSession turns the session into a persisted bill.
func (h *BillingHandler) FinalizeSession(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Checkout.Finalize(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}
