package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"gifts-backend/internal/auth"
	"gifts-backend/internal/cache"
	"gifts-backend/internal/config"
	"gifts-backend/internal/database"
	"gifts-backend/internal/db"
	"gifts-backend/internal/handlers"
	"gifts-backend/internal/health"
	h "gifts-backend/internal/http"
	"gifts-backend/internal/invoice"
	"gifts-backend/internal/middleware"
	"gifts-backend/internal/monitoring"
	"gifts-backend/internal/repositories"
	"gifts-backend/internal/services"
	"gifts-backend/internal/storage"
)

func businessInfo(cfg *config.Config) invoice.BusinessInfo {
	return invoice.BusinessInfo{
		Name:         cfg.Business.Name,
		AddressLine1: cfg.Business.AddressLine1,
		AddressLine2: cfg.Business.AddressLine2,
		Phone:        cfg.Business.Phone,
		Email:        cfg.Business.Email,
		GSTIN:        cfg.Business.GSTIN,
		FooterNote:   cfg.Business.FooterNote,
	}
}

// noopUploader stands in when object storage is not configured. Documents
// are still rendered and downloadable, just not archived.
type noopUploader struct{}

func (noopUploader) UploadDocument(ctx context.Context, key, contentType string, body []byte) (string, error) {
	return "", fmt.Errorf("object storage not configured, cannot store %s", key)
}

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()
	log.Printf("Connected to database: %s", cfg.Database.Name)

	// Redis is optional. Without it logins fall back to bcrypt and catalog
	// reads go straight to Postgres.
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (continuing without cache)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Migrations failed: %v", err)
	}
	cancel()

	// Internal ops dashboard on its own port
	go monitoring.NewMonitoringServer(pool, 9090).Start()

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	billRepo := repositories.NewBillRepository(pool)

	// Auth
	jwtManager := auth.NewJWTManager(cfg)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	// Invoice renderers
	business := businessInfo(cfg)
	pdfRenderer := invoice.NewPDFRenderer(business)
	var printRenderer invoice.Renderer
	if cfg.Gotenberg.URL != "" {
		pr, err := invoice.NewPrintRenderer(business, cfg.Gotenberg.URL, &http.Client{Timeout: 30 * time.Second})
		if err != nil {
			log.Fatalf("print renderer init failed: %v", err)
		}
		printRenderer = pr
		log.Printf("[Invoice] Print pipeline enabled via %s", cfg.Gotenberg.URL)
	} else {
		log.Println("[Invoice] GOTENBERG_URL not set, print pipeline disabled")
	}

	// Document storage
	var uploader services.Uploader
	if r2, err := storage.NewR2Store(context.Background(), cfg); err != nil {
		log.Printf("[Storage] %v, invoice documents will not be archived", err)
		uploader = noopUploader{}
	} else {
		uploader = r2
	}

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo)
	productService := services.NewProductService(productRepo)
	documentService := services.NewDocumentService(pdfRenderer, printRenderer, uploader)
	billService := services.NewBillService(billRepo, documentService)
	sessionManager := services.NewSessionManager()
	checkoutService := services.NewCheckoutService(sessionManager, billRepo, customerService, documentService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService, billService)
	productHandler := handlers.NewProductHandler(productService)
	billingHandler := handlers.NewBillingHandler(sessionManager, productService, customerService, checkoutService)
	billHandler := handlers.NewBillHandler(billService, documentService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	router := h.NewRouter(authHandler, customerHandler, productHandler, billingHandler, billHandler, healthHandler, authMiddleware)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			middleware.RequestLogging(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
