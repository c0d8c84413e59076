package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/application/handler"
	"github.com/mkovac/erpsync/internal/application/service"
	"github.com/mkovac/erpsync/internal/auth"
	"github.com/mkovac/erpsync/internal/cache"
	"github.com/mkovac/erpsync/internal/config"
	"github.com/mkovac/erpsync/internal/database"
	"github.com/mkovac/erpsync/internal/erp"
	"github.com/mkovac/erpsync/internal/httpapi"
	"github.com/mkovac/erpsync/internal/kafka"
	"github.com/mkovac/erpsync/internal/observability"
	"github.com/mkovac/erpsync/internal/pkg/breaker"
	"github.com/mkovac/erpsync/internal/resolver"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewInmem(256)

	pool := database.Connect(ctx, cfg.DSN())
	defer pool.Close()
	journal := database.New(pool, cfg.Tables)

	outcomes, err := cache.New(cfg.CacheCap)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	outcomes.Warm(ctx, journal)

	client := erp.New(cfg.Erp, cfg.RateLimit, &http.Client{Timeout: 30 * time.Second}, logger)
	entities := resolver.New(client, cfg.Erp, logger)
	svc := service.NewService(
		client,
		entities,
		outcomes,
		journal,
		cfg.Erp,
		cfg.RateLimit,
		cfg.Poll,
		logger,
		metrics,
	)

	tokens := auth.NewStatic(cfg.Erp.Token)
	brk := breaker.New(cfg.Breaker)
	msgHandler := handler.NewHandler(svc, tokens, brk, cfg.Retry, logger, metrics)

	if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, 3, 1, logger); err != nil {
		logger.Fatal("kafka topic init failed", zap.Error(err))
	}
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.Topic,
		GroupID:     cfg.Kafka.Group,
		StartOffset: kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer := kafka.NewConsumer(msgHandler, reader, cfg.Kafka.Workers, logger)
	go consumer.Start(ctx)

	api := httpapi.New(svc, logger, metrics)
	go func() {
		logger.Info("http api listening", zap.String("addr", cfg.HTTPAddr))
		if err := api.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Give in-flight syncs a moment to settle before the pool closes.
	time.Sleep(2 * time.Second)

	logger.Info("stopped")
}
