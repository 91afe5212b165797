package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"erj-server/internal/audit"
	"erj-server/internal/auth"
	"erj-server/internal/config"
	discounts "erj-server/internal/discounts/domain"
	discountlocal "erj-server/internal/discounts/infrastructure/localstore"
	discountmemory "erj-server/internal/discounts/infrastructure/memory"
	discountmongo "erj-server/internal/discounts/infrastructure/mongo"
	discountinterfaces "erj-server/internal/discounts/interfaces"
	"erj-server/internal/manifest/application"
	manifest "erj-server/internal/manifest/domain"
	manifestlocal "erj-server/internal/manifest/infrastructure/localstore"
	manifestmemory "erj-server/internal/manifest/infrastructure/memory"
	manifestmongo "erj-server/internal/manifest/infrastructure/mongo"
	manifestinterfaces "erj-server/internal/manifest/interfaces"
	"erj-server/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	repo, discountStore, cleanup, err := buildStores(cfg, logger)
	if err != nil {
		logger.Fatalf("storage error: %v", err)
	}
	defer cleanup()

	var auditLogger audit.Logger
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		auditLogger = audit.NewRepository(db)
	}

	reportService, err := application.NewReportService(repo, systemClock{},
		application.WithDefaultCountry(cfg.DefaultCountry),
		application.WithDefaultOperator(cfg.DefaultOperator),
	)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}
	reportHandler, err := manifestinterfaces.NewReportHandler(reportService, systemClock{}, auditLogger)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}
	discountHandler, err := discountinterfaces.NewDiscountHandler(discountStore, auditLogger)
	if err != nil {
		logger.Fatalf("discount handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports", reportHandler)
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/api/v1/discounts", discountHandler)
	mux.Handle("/api/v1/discounts/", discountHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s (backend=%s)", cfg.HTTPAddr, cfg.StorageBackend)
	logger.Fatal(server.ListenAndServe())
}

func buildStores(cfg config.Config, logger *log.Logger) (manifest.Repository, discounts.Store, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return manifestmemory.NewRepository(), discountmemory.NewStore(), noop, nil
	case config.BackendLocal:
		repo, err := manifestlocal.NewStore(cfg.StorageRoot)
		if err != nil {
			return nil, nil, noop, err
		}
		store, err := discountlocal.NewStore(cfg.StorageRoot)
		if err != nil {
			return nil, nil, noop, err
		}
		return repo, store, noop, nil
	case config.BackendMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongodriver.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, noop, err
		}
		cleanup := func() {
			disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer disconnectCancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Printf("mongo disconnect error: %v", err)
			}
		}
		db := client.Database(cfg.MongoDatabase)
		repo, err := manifestmongo.NewRepository(db)
		if err != nil {
			cleanup()
			return nil, nil, noop, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			cleanup()
			return nil, nil, noop, err
		}
		store, err := discountmongo.NewStore(db)
		if err != nil {
			cleanup()
			return nil, nil, noop, err
		}
		return repo, store, cleanup, nil
	}
	return nil, nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
