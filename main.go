// File: onetracker/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onetracker/config"
	"onetracker/cron"
	"onetracker/database"
	bookingrepo "onetracker/database/repository/booking"
	"onetracker/handlers"
	"onetracker/middleware"
	"onetracker/routes"
	"onetracker/services/availability"
	bookingsvc "onetracker/services/booking"
	"onetracker/services/chat"
	ai "onetracker/services/intelligence"
	"onetracker/services/notification"
	"onetracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	bookingRepo := bookingrepo.NewPgRepository(database.Pool)

	// Background queue for confirmation emails.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// Services.
	availabilityService := &availability.DefaultService{
		Repo:  bookingRepo,
		Cache: utils.GetCacheClient(),
	}
	bookingService := &bookingsvc.DefaultService{
		Repo:         bookingRepo,
		Availability: availabilityService,
		Cache:        utils.GetCacheClient(),
		Queue:        queueClient,
	}

	gemini, err := ai.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
	}
	defer gemini.Close()

	// Chat sessions live in Redis in production so drafts survive restarts;
	// development keeps them in process.
	var sessionStore chat.SessionStore = chat.NewMemorySessionStore()
	if config.IsProduction() {
		sessionStore = chat.NewRedisSessionStore(utils.GetCacheClient(), 30*time.Minute)
	}

	chatService := &chat.DefaultService{
		Sessions: sessionStore,
		Dialogue: &chat.Dialogue{
			Availability: availabilityService,
			Bookings:     bookingService,
		},
		Responder: &chat.Responder{
			Embedder: ai.NewWorkersAIEmbedder(
				config.AppConfig.CFAccountID, config.AppConfig.CFAPIToken),
			Index: ai.NewVectorizeIndex(
				config.AppConfig.CFAccountID, config.AppConfig.CFAPIToken,
				config.AppConfig.VectorizeIndex),
			Generator: gemini,
		},
	}

	notificationService := notification.NewBrevoService(
		config.AppConfig.BrevoAPIKey,
		config.AppConfig.EmailSender,
		config.AppConfig.EmailSenderName,
		config.AppConfig.CompanyEmail,
	)

	// Background workers.
	emailWorker := cron.InitEmailWorker(notificationService)
	warmup := cron.InitAvailabilityWarmup(availabilityService)

	// Register routes.
	routes.RegisterRoutes(router, &routes.Handlers{
		Chat:         handlers.NewChatHandler(chatService),
		Booking:      handlers.NewBookingHandler(bookingService),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
	})

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

	warmup.Stop()
	emailWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	database.Pool.Close()
	logger.Sugar().Info("main: server stopped gracefully")
}
