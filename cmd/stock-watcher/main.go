package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/infra/mq"
	"github.com/bboodd/mini-shop/internal/logger"
	"github.com/bboodd/mini-shop/internal/messaging"
	"github.com/bboodd/mini-shop/internal/service"
)

// 库存巡视 worker：消费 stock.queue，低于阈值时发出告警日志
func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径")
		debug      = flag.Bool("debug", false, "开发模式日志")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	l, err := logger.Init(*debug)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer l.Sync()

	conn := mq.Init(&cfg.RabbitMQ)
	if err := messaging.DeclareTopology(conn, &cfg.RabbitMQ); err != nil {
		zap.L().Fatal("declare mq topology failed", zap.Error(err))
	}

	threshold := cfg.Stock.LowThreshold

	handler := func(ctx context.Context, d amqp.Delivery) error {
		var event messaging.StockUpdatedEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			service.GetMonitor().RecordConsumeError()
			return fmt.Errorf("invalid StockUpdatedEvent: %w", err)
		}

		zap.L().Info("stock updated",
			zap.Int64("product_id", event.ProductID),
			zap.Int64("previous", event.PreviousStock),
			zap.Int64("current", event.CurrentStock),
			zap.String("operation", string(event.Operation)))

		if event.CurrentStock < threshold {
			zap.L().Warn("low stock alert",
				zap.Int64("product_id", event.ProductID),
				zap.String("product_name", event.ProductName),
				zap.Int64("current_stock", event.CurrentStock),
				zap.Int64("threshold", threshold))
		}

		service.GetMonitor().RecordConsumeProcessed()
		return nil
	}

	if err := messaging.Consume(context.Background(), conn, &cfg.Worker, cfg.RabbitMQ.StockQueue, handler); err != nil {
		zap.L().Fatal("stock consumer stopped", zap.Error(err))
	}
}
