package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"havana-backend/config"
	"havana-backend/controllers"
	"havana-backend/routes"
	"havana-backend/services"
	"havana-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	utils.InitLogger()

	// Connect database (config.ConnectDatabase should set config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied (if configured).")

	// Initialize services
	notifier := services.NewNotifier()
	gstService := services.NewGSTService(db)
	chargeService := services.NewChargeService(db)
	checkoutService := services.NewCheckoutService(db, chargeService, gstService)
	invoiceService := services.NewInvoiceService(db)
	paymentService := services.NewPaymentService(db, invoiceService)
	pantryService := services.NewPantryService(db, notifier)
	kitchenOrderService := services.NewKitchenOrderService(db, notifier)
	maintenanceService := services.NewMaintenanceService(db)

	// Initialize controllers
	checkoutController := controllers.NewCheckoutController(checkoutService)
	invoiceController := controllers.NewInvoiceController(invoiceService)
	paymentController := controllers.NewPaymentController(paymentService)
	pantryController := controllers.NewPantryController(pantryService)
	kitchenController := controllers.NewKitchenController(kitchenOrderService)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService)
	eventsController := controllers.NewEventsController(notifier)

	// Build router
	router := routes.SetupRouter(
		checkoutController,
		invoiceController,
		paymentController,
		pantryController,
		kitchenController,
		maintenanceController,
		eventsController,
		gstService,
	)

	// Port from env (prefer), fallback to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// no WriteTimeout: /api/events holds connections open
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	notifier.Close()

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
