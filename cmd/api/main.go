package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jurisph/legal-qa-backend/config"
	"github.com/jurisph/legal-qa-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := bootstrap.RouterDeps{Config: cfg}

	if cfg.Database.DSN != "" {
		db, err := bootstrap.OpenDB(ctx, cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()
		deps.DB = db
	} else {
		log.Println("DB_DSN not set, audit log disabled")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		deps.Redis = rdb
	} else {
		log.Println("REDIS_ADDR not set, using in-process rate limiter")
	}

	router := bootstrap.BuildRouter(deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
