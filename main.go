package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spabook/config"
	"spabook/cron"
	"spabook/database"
	bookingRepo "spabook/database/repository/booking"
	catalogRepo "spabook/database/repository/catalog"
	scheduleRepo "spabook/database/repository/schedule"
	"spabook/handlers"
	"spabook/middleware"
	"spabook/routes"
	"spabook/services/booking"
	"spabook/services/notification"
	"spabook/services/payment"
	"spabook/services/schedule"
	"spabook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitEventClient()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	schedules := scheduleRepo.NewMongoScheduleRepo()
	catalog := catalogRepo.NewMongoCatalogRepo()

	// Services.
	scheduleCatalog := schedule.NewDefaultCatalog(schedules)
	availability := &booking.DefaultAvailabilityEngine{
		Bookings: bookings,
		Catalog:  catalog,
		Schedule: scheduleCatalog,
	}
	notifier := notification.NewRedisNotificationService(utils.GetEventClient())
	lifecycle := &booking.DefaultLifecycleService{
		Repo:         bookings,
		Catalog:      catalog,
		Availability: availability,
		Pricing:      &booking.DefaultPricingCalculator{Catalog: catalog},
		Guard:        booking.NewMemoryConflictGuard(bookings, logger),
		Notifier:     notifier,
		Payments:     payment.NewStripePaymentProcessor(),
		Reminders:    cron.NewReminderScheduler(),
		Policy:       booking.PolicyFromConfig(),
	}

	// Background workers.
	cron.InitReminderWorker(lifecycle, notifier)
	cron.StartStalePendingSweeper(lifecycle, 5*time.Minute)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetEventClient()},
		database.MongoClient,
	)

	// Handlers and routes.
	bookingHandler := handlers.NewBookingHandler(lifecycle)
	availabilityHandler := handlers.NewAvailabilityHandler(availability)
	scheduleHandler := handlers.NewScheduleHandler(schedules)
	routes.Register(router, bookingHandler, availabilityHandler, scheduleHandler)

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
