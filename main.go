// File: offerly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"offerly/config"
	"offerly/cron"
	"offerly/database"
	claimRepo "offerly/database/repository/claim"
	slotRepo "offerly/database/repository/slot"
	"offerly/handlers"
	"offerly/middleware"
	"offerly/routes"
	"offerly/services/booking"
	"offerly/services/tasks"
	"offerly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	slotColl := database.MongoClient.Database("offerly").Collection("slots")
	if err := slotRepo.EnsureSlotIndexes(slotColl); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	claims := claimRepo.NewMongoClaimRepo()

	// background claim worker consuming committed reservations.
	cron.InitClaimWorker(claims)

	// services.
	committer := &booking.ReservationCommitter{Repo: slots}
	bookingService := &booking.DefaultBookingSessionService{
		SlotRepo:   slots,
		Sessions:   booking.NewRedisSessionStore(utils.GetSessionCacheClient()),
		Committer:  committer,
		ClaimQueue: tasks.NewAsynqClaimQueue(),
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	routes.RegisterRoutes(router, bookingHandler)

	utils.StartHealthMonitor(utils.GetSessionCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
