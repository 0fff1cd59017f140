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

// 通知发送 worker：消费 notification.queue 按渠道派发，
// 同时消费 order.queue 做订单创建的审计记录。
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

	ctx := context.Background()

	go func() {
		if err := messaging.Consume(ctx, conn, &cfg.Worker, cfg.RabbitMQ.OrderQueue, handleOrderCreated); err != nil {
			zap.L().Fatal("order consumer stopped", zap.Error(err))
		}
	}()

	if err := messaging.Consume(ctx, conn, &cfg.Worker, cfg.RabbitMQ.NotificationQueue, handleNotification); err != nil {
		zap.L().Fatal("notification consumer stopped", zap.Error(err))
	}
}

func handleOrderCreated(ctx context.Context, d amqp.Delivery) error {
	var event messaging.OrderCreatedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		service.GetMonitor().RecordConsumeError()
		return fmt.Errorf("invalid OrderCreatedEvent: %w", err)
	}

	zap.L().Info("order created",
		zap.Int64("order_id", event.OrderID),
		zap.String("customer_email", event.CustomerEmail),
		zap.String("total_amount", event.TotalAmount.String()))
	service.GetMonitor().RecordConsumeProcessed()
	return nil
}

func handleNotification(ctx context.Context, d amqp.Delivery) error {
	var event messaging.NotificationEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		service.GetMonitor().RecordConsumeError()
		return fmt.Errorf("invalid NotificationEvent: %w", err)
	}

	switch event.Channel {
	case messaging.ChannelEmail:
		sendEmail(&event)
	case messaging.ChannelSMS:
		sendSMS(&event)
	case messaging.ChannelPush:
		sendPush(&event)
	default:
		zap.L().Warn("unknown notification channel",
			zap.String("channel", string(event.Channel)),
			zap.String("recipient", event.Recipient))
	}

	service.GetMonitor().RecordConsumeProcessed()
	return nil
}

// 实际发送接外部网关，这里先以日志落地
func sendEmail(event *messaging.NotificationEvent) {
	zap.L().Info("sending email",
		zap.String("to", event.Recipient),
		zap.String("kind", event.Kind),
		zap.String("title", event.Title))
}

func sendSMS(event *messaging.NotificationEvent) {
	zap.L().Info("sending sms",
		zap.String("to", event.Recipient),
		zap.String("message", event.Message))
}

func sendPush(event *messaging.NotificationEvent) {
	zap.L().Info("sending push",
		zap.String("to", event.Recipient),
		zap.String("title", event.Title))
}
