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
	"github.com/segmentio/kafka-go"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/catalog"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/codec"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/config"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/consumer"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/store"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsSrv := &http.Server{Addr: cfg.HTTPAddress, Handler: promhttp.Handler()}
	go func() {
		log.Printf("sheet consumer metrics listening on %s", cfg.HTTPAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

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
	handler := consumer.NewSheetHandler(mergeStore, cat)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.ConsumerTopic,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	proc := consumer.NewProcessor(reader, handler)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := proc.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("consumer stopped with error: %v", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	log.Println("sheet consumer shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics shutdown error: %v", err)
	}

	<-done
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
