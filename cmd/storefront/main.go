package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/storefront/internal/config"
	orchestrator "github.com/dmehra2102/storefront/internal/orchestrator/application"
	orderkafka "github.com/dmehra2102/storefront/internal/order/infrastructure/kafka"
	"github.com/dmehra2102/storefront/internal/platform/grpcserver"
	"github.com/dmehra2102/storefront/pkg/idempotency"
	"github.com/dmehra2102/storefront/pkg/logging"
	"github.com/dmehra2102/storefront/pkg/outbox"
	"github.com/dmehra2102/storefront/pkg/shutdown"
	"github.com/dmehra2102/storefront/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, cfg.ServiceName, cfg.Version, cfg.OTelEndpoint, cfg.OTelInsecure, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("storage init failed", "storage", cfg.Storage, "err", err)
		os.Exit(1)
	}

	// In-flight guard
	var guard orchestrator.InFlightGuard
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, guard will fail open", "addr", cfg.RedisAddr, "err", err)
		}
		guard = idempotency.NewGuard(rdb, cfg.IdempotencyTTL)
	}

	// Outbox relay
	var writer *orderkafka.Writer
	relayDone := make(chan struct{})
	if len(cfg.KafkaBrokers) > 0 {
		writer = orderkafka.NewWriter(cfg.KafkaBrokers)
		dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
		relay := outbox.NewRelay(log, st.outbox, dispatch, cfg.ServiceName+"-relay")
		go func() {
			defer close(relayDone)
			if err := relay.Run(ctx); err != nil {
				log.Error("relay stopped with error", "err", err)
			}
		}()
	} else {
		close(relayDone)
		log.Warn("KAFKA_ADDR not set, outbox events stay pending")
	}

	// HTTP server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      newRouter(log, cfg, st, guard),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	// gRPC health
	gs := grpcserver.New(log)
	if err := gs.Run(cfg.GRPCAddr); err != nil {
		log.Error("grpc listen failed", "addr", cfg.GRPCAddr, "err", err)
		cancel()
	}
	gs.SetServing("", true)
	gs.SetServing(cfg.ServiceName, true)

	<-ctx.Done()
	log.Info("shutting down")

	err = shutdown.Run(log, 15*time.Second,
		shutdown.Step{Name: "grpc", Fn: gs.Stop},
		shutdown.Step{Name: "http", Fn: srv.Shutdown},
		shutdown.Step{Name: "relay", Fn: func(ctx context.Context) error {
			select {
			case <-relayDone:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}},
		shutdown.Step{Name: "kafka", Fn: func(context.Context) error {
			if writer == nil {
				return nil
			}
			return writer.Close()
		}},
		shutdown.Step{Name: "redis", Fn: func(context.Context) error {
			if rdb == nil {
				return nil
			}
			return rdb.Close()
		}},
		shutdown.Step{Name: "storage", Fn: func(context.Context) error {
			st.Close()
			return nil
		}},
		shutdown.Step{Name: "tracing", Fn: tp.Shutdown},
	)
	if err != nil {
		os.Exit(1)
	}
	log.Info("storefront shutdown complete")
}
