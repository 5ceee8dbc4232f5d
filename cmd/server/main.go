package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eventhub/config"
	"eventhub/internal/cache"
	"eventhub/internal/database"
	"eventhub/internal/handler"
	"eventhub/internal/mailer"
	"eventhub/internal/queue"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/internal/worker"
	"eventhub/migrations"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	// cache
	eventCache := cache.NewEventCache(cache.NewRedisStore(rdb), cfg.Cache.TTL)

	// confirmation pipeline
	confirmationQueue, err := queue.NewRedisStreamConfirmationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize confirmation queue: %v", err)
	}

	// services
	authService := service.NewAuthService(userRepo, sessionRepo)
	eventService := service.NewEventService(eventRepo, eventCache)
	queryService := service.NewQueryService(eventRepo, eventCache)
	ticketService := service.NewTicketService(ticketRepo)
	registrationService := service.NewRegistrationService(pool, eventRepo, ticketRepo, userRepo, eventCache, confirmationQueue)
	verificationService := service.NewVerificationService(ticketRepo)

	confirmationWorker := worker.NewConfirmationWorker(mailer.NewLogMailer(), confirmationQueue)
	if err := confirmationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start confirmation worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	handler.NewAuthHandler(authService).RegisterRoutes(router)
	handler.NewEventHandler(eventService, queryService, authService).RegisterRoutes(router)
	handler.NewRegistrationHandler(registrationService, authService).RegisterRoutes(router)
	handler.NewTicketHandler(ticketService, authService).RegisterRoutes(router)
	handler.NewVerificationHandler(verificationService, ticketService, cfg.Server.BaseURL).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
