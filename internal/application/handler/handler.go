package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/config"
	"github.com/mkovac/erpsync/internal/domain"
	"github.com/mkovac/erpsync/internal/observability"
	"github.com/mkovac/erpsync/internal/pkg/retry"
)

//go:generate mockgen -source internal/application/handler/handler.go -destination=internal/application/handler/handler_mock_test.go -package=handler

var (
	ErrBadDocument = errors.New("bad order document")
	ErrSync        = errors.New("sync failed")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type Service interface {
	Sync(ctx context.Context, token string, order *domain.Order) (domain.Outcome, error)
}

type brk interface {
	Allow() error
	Success()
	Failure()
}

type Handler struct {
	service     Service
	tokens      domain.TokenSource
	breaker     brk
	logger      *zap.Logger
	metrics     observability.Metrics
	retryPolicy config.Retry
}

func NewHandler(
	service Service,
	tokens domain.TokenSource,
	brk brk,
	retryPolicy config.Retry,
	logger *zap.Logger,
	metrics observability.Metrics,
) *Handler {
	return &Handler{
		service:     service,
		tokens:      tokens,
		breaker:     brk,
		logger:      logger,
		metrics:     metrics,
		retryPolicy: retryPolicy,
	}
}

// Handle — called by the consumer to process a single message.
// The consumer commits the offset itself after successfully returning nil.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) error {
	start := time.Now()

	if err := h.breaker.Allow(); err != nil {
		h.logger.Warn("circuit breaker is open",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	var order domain.Order
	if err := json.Unmarshal(message.Value, &order); err != nil {
		h.logger.Error("bad json format",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		h.observe(start, false)
		return ErrBadDocument
	}
	if err := order.Validate(); err != nil {
		// Malformed documents never become valid on replay.
		h.logger.Error("invalid order document",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		h.observe(start, false)
		return fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	token, err := h.tokens.Token(ctx)
	if err != nil {
		h.logger.Error("token source failed",
			zap.Error(err),
			zap.String("reference", order.Reference()),
		)
		h.breaker.Failure()
		h.observe(start, false)
		return fmt.Errorf("%w: %v", ErrSync, err)
	}

	var outcome domain.Outcome
	if err := retry.Do(ctx, h.retryPolicy, func() error {
		var serr error
		outcome, serr = h.service.Sync(ctx, token, &order)
		return serr
	}); err != nil {
		h.logger.Error("sync failed after retries",
			zap.String("reference", order.Reference()),
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		h.observe(start, false)
		return ErrSync
	}

	h.breaker.Success()
	h.observe(start, true)
	h.logger.Info("successfully synced order",
		zap.String("reference", order.Reference()),
		zap.Int64("remote_order_id", outcome.RemoteOrderID),
		zap.Bool("created", outcome.Created),
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
	)
	return nil
}

func (h *Handler) observe(start time.Time, ok bool) {
	h.metrics.ObserveKafka(float64(time.Since(start).Microseconds())/1000.0, ok)
}
