package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zizeomlab/film-warranty/internal/config"
	"github.com/zizeomlab/film-warranty/internal/database"
	"github.com/zizeomlab/film-warranty/internal/handler"
	"github.com/zizeomlab/film-warranty/internal/middleware"
	"github.com/zizeomlab/film-warranty/internal/queue"
	"github.com/zizeomlab/film-warranty/internal/repository"
	"github.com/zizeomlab/film-warranty/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	zizeoms := repository.NewZizeomRepo(db)
	details := repository.NewServiceDetailRepo(db)
	orders := repository.NewOrderRepo(db)

	authH := handler.NewAuthHandler(cfg, accounts, tokens)
	accountH := handler.NewAccountHandler(cfg, accounts)
	zizeomH := handler.NewZizeomHandler(zizeoms, accounts, details)
	orderH := handler.NewOrderHandler(orders, details, zizeoms, accounts)

	e := echo.New()
	e.Use(middleware.RateLimit(rlCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)

	var cacheMW echo.MiddlewareFunc
	if rdb != nil && cacheCfg.Enabled {
		cacheMW = middleware.ResponseCache(cacheCfg, rdb)
	}
	router.RegisterAPI(e, accountH, zizeomH, orderH, cfg.JWTSecret, cacheMW)

	// Background consumer appends committed orders to logs/warranty.log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
