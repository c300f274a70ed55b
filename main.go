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

	"guesthouse-backend/config"
	"guesthouse-backend/controllers"
	"guesthouse-backend/jobs"
	"guesthouse-backend/routes"
	"guesthouse-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Initialize services
	availabilityService := services.NewAvailabilityService(db)
	reservationService := services.NewReservationService(db)
	roomService := services.NewRoomService(db)
	customerService := services.NewCustomerService(db)
	occupancyService := services.NewOccupancyService(db)
	revenueService := services.NewRevenueService(db)
	dashboardService := services.NewDashboardService(db, occupancyService, revenueService)

	// Initialize controllers
	reservationController := controllers.NewReservationController(reservationService, availabilityService)
	roomController := controllers.NewRoomController(roomService)
	customerController := controllers.NewCustomerController(customerService)
	reportController := controllers.NewReportController(occupancyService, revenueService, dashboardService)

	// Nightly jobs
	scheduler, err := jobs.StartScheduler(reservationService)
	if err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	router := routes.SetupRouter(reservationController, roomController, customerController, reportController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

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

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
