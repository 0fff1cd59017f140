package messaging

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/config"
)

// Handler 处理一条投递；返回错误时消息被 Nack(requeue=false)，经死信交换机进入 DLQ
type Handler func(ctx context.Context, d amqp.Delivery) error

// Consume 以固定大小的 worker 池消费指定队列（手动确认），
// 直到连接关闭或 ctx 取消才返回。
func Consume(ctx context.Context, conn *amqp.Connection, cfg *config.WorkerConfig, queue string, handler Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 10
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	workers := cfg.Count
	if workers <= 0 {
		workers = 1
	}

	zap.L().Info("consumer started",
		zap.String("queue", queue),
		zap.Int("workers", workers))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for d := range msgs {
				if err := handler(ctx, d); err != nil {
					zap.L().Error("message handling failed, routing to DLQ",
						zap.String("queue", queue),
						zap.String("message_id", d.MessageId),
						zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		// 关闭 channel 让 worker 退出
		_ = ch.Close()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}
