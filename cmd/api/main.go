package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/resurrectethos/citation-verifier/internal/application"
	appaccounts "github.com/resurrectethos/citation-verifier/internal/application/accounts"
	appanalysis "github.com/resurrectethos/citation-verifier/internal/application/analysis"
	"github.com/resurrectethos/citation-verifier/internal/config"
	domaccounts "github.com/resurrectethos/citation-verifier/internal/domain/accounts"
	domanalysis "github.com/resurrectethos/citation-verifier/internal/domain/analysis"
	"github.com/resurrectethos/citation-verifier/internal/infra/ai/deepseek"
	"github.com/resurrectethos/citation-verifier/internal/infra/breaker"
	"github.com/resurrectethos/citation-verifier/internal/infra/db/memory"
	mysqlp "github.com/resurrectethos/citation-verifier/internal/infra/db/mysql"
	postgresp "github.com/resurrectethos/citation-verifier/internal/infra/db/postgres"
	"github.com/resurrectethos/citation-verifier/internal/infra/httpserver"
	"github.com/resurrectethos/citation-verifier/internal/infra/scholar"
	minioStore "github.com/resurrectethos/citation-verifier/internal/infra/storage"
	"github.com/resurrectethos/citation-verifier/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// pilih backend credential store
	var (
		repo     domaccounts.Repository
		checkers = map[string]middleware.HealthChecker{}
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewAccountRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "memory":
		repo = memory.NewAccountRepository()
	default: // mysql
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewAccountRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// provider clients
	chat := deepseek.NewClient(cfg.DeepSeek.APIKey, cfg.DeepSeek.BaseURL, cfg.DeepSeek.Model, cfg.ChatTimeout())
	search := scholar.New(cfg.Scholar.BaseURL, cfg.ScholarTimeout())
	brk := breaker.New(cfg.Breaker.FailureThreshold, cfg.BreakerCooldown())

	// optional archive store for full analysis output
	var archive domanalysis.Archiver
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// pipeline + per-credential executor
	pipeline := &appanalysis.Pipeline{Chat: chat, Search: search, Breaker: brk}
	executor := appanalysis.NewExecutor(repo, pipeline, archive, application.SystemClock{})
	defer executor.Close()

	accountsSvc := &appaccounts.Service{
		Repo:         repo,
		Clock:        application.SystemClock{},
		DefaultQuota: cfg.Limits.DefaultQuota,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.Limits.ThrottleBurst, cfg.Limits.ThrottlePerSec))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Admin-Token"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	mux.Mount("/", httpserver.NewRouter(
		executor,
		accountsSvc,
		cfg.Admin.Token,
		cfg.Limits.MinTextChars,
		cfg.Limits.MaxTextChars,
		middleware.HealthHandler(checkers),
		middleware.MetricsHandler(func() string { return string(brk.State()) }),
	))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // three provider calls can take a while
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
