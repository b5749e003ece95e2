package main // Entry point package

import (
	"context" // context bounds the startup migration
	"log"     // Logging library
	"time"    // timeout for the migration

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/movie-ticket-api/internal/cache"      // process-wide ticket cache
	"github.com/iliyamo/movie-ticket-api/internal/config"     // environment config loader
	"github.com/iliyamo/movie-ticket-api/internal/database"   // MySQL connection + migration
	"github.com/iliyamo/movie-ticket-api/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movie-ticket-api/internal/queue"      // ticket event audit consumer
	"github.com/iliyamo/movie-ticket-api/internal/repository" // ticket store gateway
	"github.com/iliyamo/movie-ticket-api/internal/router"     // route registration
	"github.com/iliyamo/movie-ticket-api/internal/service"    // orchestration core
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil disables rate limiting
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}

	// The cache is constructed here and injected; it lives as long as the
	// process and there is no globally reachable instance.
	ticketCache := cache.NewTicketCache()
	ticketService := service.NewTicketService(repository.NewTicketRepo(db), ticketCache)
	ticketHandler := handler.NewTicketHandler(ticketService, true)

	authHandler, err := handler.NewAuthHandler(cfg)
	if err != nil {
		log.Fatalf("auth setup: %v", err)
	}

	// Background audit consumer; reconnects on broker failures.
	go queue.StartTicketAuditConsumer()

	e := echo.New()
	router.RegisterRoutes(e, cfg, rdb, ticketHandler, authHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
