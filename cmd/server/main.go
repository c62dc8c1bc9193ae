package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment for local runs
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/arcade-wallet/internal/config"     // Internal config loader
	"github.com/iliyamo/arcade-wallet/internal/database"   // MySQL connection helper
	"github.com/iliyamo/arcade-wallet/internal/handler"    // HTTP handlers
	"github.com/iliyamo/arcade-wallet/internal/ledger"     // Wallet ledger engine
	"github.com/iliyamo/arcade-wallet/internal/middleware" // Rate limit and cache middleware
	"github.com/iliyamo/arcade-wallet/internal/queue"      // RabbitMQ transaction consumer
	"github.com/iliyamo/arcade-wallet/internal/repository" // Data access layer
	"github.com/iliyamo/arcade-wallet/internal/router"     // Route registration
)

func main() {
	// Load a local .env file when present. In containers the variables come
	// from the orchestrator and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err) // No DB means no wallets; refuse to start
	}

	// Redis backs the response cache and rate limiter. A nil client
	// disables both rather than failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	// Start the RabbitMQ consumer that writes the transaction log file.
	// It reconnects on its own, so a broker outage never blocks the API.
	go queue.StartTxnConsumer()

	// Repositories over the shared connection pool.
	wallets := repository.NewWalletRepo(db)
	regs := repository.NewRegistrationRepo(db)
	txns := repository.NewTxnRepo(db)
	audit := repository.NewAuditRepo(db)
	games := repository.NewGameRepo(db)
	presets := repository.NewPresetRepo(db)
	staff := repository.NewStaffRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := ledger.NewEngine(db, wallets, regs, txns)

	authH := handler.NewAuthHandler(cfg, staff, tokens)
	lookupH := handler.NewLookupHandler(cfg, wallets, txns, regs)
	checkinH := handler.NewCheckinHandler(cfg, regs, audit)
	txnH := handler.NewTxnHandler(cfg, engine)
	catalogH := handler.NewCatalogHandler(cfg, games, presets)

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterStaffAPI(e, authH, lookupH, checkinH, txnH, catalogH, cfg.JWTSecret, rateLimit, respCache)

	addr := ":" + cfg.Port                                                          // Address string with port
	log.Printf("listening on %s (env=%s event=%s)", addr, cfg.Env, cfg.EventKey) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
