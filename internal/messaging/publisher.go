package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/config"
)

// Publisher 把类型化事件发布到 topic 交换机。
// 每次发布单独开 channel，连接复用；是否吞掉发布失败由调用方决定。
type Publisher struct {
	conn *amqp.Connection
	cfg  *config.RabbitMQConfig
}

// NewPublisher 创建事件发布器
func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQConfig) *Publisher {
	return &Publisher{conn: conn, cfg: cfg}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx,
		p.cfg.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	zap.L().Debug("event published",
		zap.String("exchange", p.cfg.Exchange),
		zap.String("routing_key", routingKey))
	return nil
}

// PublishOrderCreated 发布订单创建事件
func (p *Publisher) PublishOrderCreated(ctx context.Context, event *OrderCreatedEvent) error {
	return p.publish(ctx, p.cfg.OrderRoutingKey, event)
}

// PublishStockUpdated 发布库存变动事件
func (p *Publisher) PublishStockUpdated(ctx context.Context, event *StockUpdatedEvent) error {
	return p.publish(ctx, p.cfg.StockRoutingKey, event)
}

// PublishNotification 发布通知请求
func (p *Publisher) PublishNotification(ctx context.Context, event *NotificationEvent) error {
	return p.publish(ctx, p.cfg.NotificationRoutingKey, event)
}

// PublishSearchIndex 发布搜索索引同步请求
func (p *Publisher) PublishSearchIndex(ctx context.Context, event *SearchIndexEvent) error {
	return p.publish(ctx, p.cfg.SearchRoutingKey, event)
}
