package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gifts-backend/internal/handlers"
	"gifts-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	productHandler *handlers.ProductHandler,
	billingHandler *handlers.BillingHandler,
	billHandler *handlers.BillHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Users (admin provisions accounts)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(authHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(authHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	usersAPI.HandleFunc("/me/password", authHandler.ChangePassword).Methods("PUT")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.ListCustomers).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.CreateCustomer).Methods("POST")
	customersAPI.HandleFunc("/search", customerHandler.Search).Methods("GET")
	customersAPI.HandleFunc("/top", customerHandler.TopCustomers).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.GetCustomer).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	customersAPI.HandleFunc("/{id}/bills", customerHandler.CustomerBills).Methods("GET")

	// Protected API routes - Product catalog (read-only)
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.ListProducts).Methods("GET")
	productsAPI.HandleFunc("/search", productHandler.SearchProducts).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.GetProduct).Methods("GET")

	// Protected API routes - Live checkout sessions
	sessionsAPI := r.PathPrefix("/api/billing/sessions").Subrouter()
	sessionsAPI.Use(authMiddleware.Authenticate)
	sessionsAPI.HandleFunc("", billingHandler.CreateSession).Methods("POST")
	sessionsAPI.HandleFunc("/{id}", billingHandler.GetSession).Methods("GET")
	sessionsAPI.HandleFunc("/{id}", billingHandler.DiscardSession).Methods("DELETE")
	sessionsAPI.HandleFunc("/{id}/items", billingHandler.AddItem).Methods("POST")
	sessionsAPI.HandleFunc("/{id}/items/{itemId}", billingHandler.UpdateQuantity).Methods("PUT")
	sessionsAPI.HandleFunc("/{id}/items/{itemId}", billingHandler.RemoveItem).Methods("DELETE")
	sessionsAPI.HandleFunc("/{id}/discounts", billingHandler.AddDiscount).Methods("POST")
	sessionsAPI.HandleFunc("/{id}/discounts/{discountId}", billingHandler.RemoveDiscount).Methods("DELETE")
	sessionsAPI.HandleFunc("/{id}/payments", billingHandler.AddPayment).Methods("POST")
	sessionsAPI.HandleFunc("/{id}/payments/{paymentId}", billingHandler.RemovePayment).Methods("DELETE")
	sessionsAPI.HandleFunc("/{id}/customer", billingHandler.AttachCustomer).Methods("PUT")
	sessionsAPI.HandleFunc("/{id}/customer", billingHandler.DetachCustomer).Methods("DELETE")
	sessionsAPI.HandleFunc("/{id}/notes", billingHandler.SetNotes).Methods("PUT")
	sessionsAPI.HandleFunc("/{id}/checkout", billingHandler.FinalizeSession).Methods("POST")

	// Protected API routes - Finalized bills
	billsAPI := r.PathPrefix("/api/bills").Subrouter()
	billsAPI.Use(authMiddleware.Authenticate)
	billsAPI.HandleFunc("", billHandler.ListBills).Methods("GET")
	billsAPI.HandleFunc("/number/{number}", billHandler.GetBillByNumber).Methods("GET")
	billsAPI.HandleFunc("/{id}", billHandler.GetBill).Methods("GET")
	billsAPI.HandleFunc("/{id}/payments", billHandler.RecordPayment).Methods("POST")
	billsAPI.HandleFunc("/{id}/document", billHandler.DownloadDocument).Methods("GET")
	billsAPI.HandleFunc("/{id}/document", billHandler.RegenerateDocument).Methods("POST")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
