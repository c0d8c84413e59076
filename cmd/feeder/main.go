package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/config"
	"github.com/mkovac/erpsync/internal/domain"
)

// feeder publishes synthetic order documents to the sync topic. Useful for
// exercising the pipeline against a staging organisation.
func main() {
	count := flag.Int("count", 100, "number of orders to publish")
	rate := flag.Int("rate", 10, "orders per second")
	flag.Parse()

	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	defer writer.Close()

	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	sent := 0
	base := time.Now().UnixNano() % 1_000_000
	for sent < *count {
		select {
		case <-ctx.Done():
			logger.Info("stopped early", zap.Int("sent", sent))
			return
		case <-ticker.C:
		}

		order := fakeOrder(base + int64(sent))
		value, err := json.Marshal(order)
		if err != nil {
			logger.Error("marshal failed", zap.Error(err))
			continue
		}

		if err := writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(order.Reference()),
			Value: value,
			Time:  time.Now(),
		}); err != nil {
			logger.Error("publish failed", zap.Error(err))
			continue
		}
		sent++
	}

	logger.Info("done", zap.Int("sent", sent))
	_ = os.Stdout.Sync()
}

var skus = []string{"EAC-01", "EAC-02", "EAC-03", "KIT-10", "KIT-11"}

func fakeOrder(number int64) *domain.Order {
	n := 1 + rand.Intn(3)
	items := make([]domain.LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.LineItem{
			SKU:       skus[rand.Intn(len(skus))],
			Quantity:  1 + rand.Intn(5),
			UnitPrice: decimal.NewFromInt(int64(500 + rand.Intn(5000))).Div(decimal.NewFromInt(100)),
		})
	}

	return &domain.Order{
		Number: number,
		Email:  fmt.Sprintf("buyer%d@example.com", number),
		Billing: domain.Billing{
			FirstName: "Test",
			LastName:  fmt.Sprintf("Buyer %d", number),
			Address:   "Bulevar oslobodjenja 1",
			Zip:       "11000",
			City:      "Beograd",
			Country:   "Serbia",
		},
		Items:     items,
		Currency:  "RSD",
		CreatedAt: time.Now().UTC(),
	}
}
