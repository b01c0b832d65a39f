package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/marizoo/marizoo-server/internal/booking"
	"github.com/marizoo/marizoo-server/internal/config"
	"github.com/marizoo/marizoo-server/internal/database"
	"github.com/marizoo/marizoo-server/internal/handler"
	"github.com/marizoo/marizoo-server/internal/middleware"
	"github.com/marizoo/marizoo-server/internal/queue"
	"github.com/marizoo/marizoo-server/internal/repository"
	"github.com/marizoo/marizoo-server/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config (.env honored in dev)

	// Open MySQL and verify connectivity before serving traffic.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both; the server still runs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: caching and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	stores := repository.NewStoreRepo(db)
	animals := repository.NewAnimalRepo(db)
	species := repository.NewSpeciesRepo(db)
	plays := repository.NewPlayRepo(db)
	books := repository.NewBookingRepo(db)
	broadcasts := repository.NewBroadcastRepo(db)

	// The coordinator owns all booking state transitions.  Its in-memory
	// ledger is primed lazily from the database per play.
	coord := booking.NewCoordinator(plays, books, booking.NewCapacityLedger())

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	storeH := handler.NewStoreHandler(stores, animals, plays)
	animalH := handler.NewAnimalHandler(animals, species)
	broadcastH := handler.NewBroadcastHandler(broadcasts)
	bookingH := handler.NewBookingHandler(coord, books, plays)

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBrowse(e, storeH, animalH, broadcastH, bookingH, cfg.JWTSecret, cacheMW)
	router.RegisterUser(e, bookingH, storeH, cfg.JWTSecret, limitMW)

	// Background consumer mirrors booking events into logs/booking.log.
	// It reconnects on broker failures and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
