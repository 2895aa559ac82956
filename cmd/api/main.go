package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/api"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/catalog"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/codec"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/config"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/parser"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/store"
	httptransport "github.com/1Lorenzo0/exercise-sheet-to-graph/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	backend, cleanup, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialise record store: %v", err)
	}
	defer cleanup()

	mergeStore := store.New(backend, codec.YAML{})
	handler := api.NewHandler(mergeStore, cat, parser.New())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: 2 * cfg.HTTPTimeout,
		IdleTimeout:  60 * time.Second,
	}, logger(mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("sheet-service listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// newBackend selects the record store backend from configuration.
func newBackend(ctx context.Context, cfg config.Config) (store.RecordStore, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		backend := store.NewPostgresStore(pool)
		if err := backend.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, pool.Close, nil
	default:
		backend, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() {}, nil
	}
}
