package messaging

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bboodd/mini-shop/internal/config"
)

// DeclareTopology 声明 topic 交换机、四条业务队列与死信拓扑。
// 消费失败的消息由死信交换机接走，重投递完全交给消息基础设施。
func DeclareTopology(conn *amqp.Connection, cfg *config.RabbitMQConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(cfg.DLXExchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(cfg.DLQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(cfg.DLQueue, cfg.DLRoutingKey, cfg.DLXExchange, false, nil); err != nil {
		return err
	}

	deadLetterArgs := amqp.Table{
		"x-dead-letter-exchange":    cfg.DLXExchange,
		"x-dead-letter-routing-key": cfg.DLRoutingKey,
	}

	bindings := []struct {
		queue string
		key   string
	}{
		{cfg.OrderQueue, cfg.OrderRoutingKey},
		{cfg.StockQueue, cfg.StockRoutingKey},
		{cfg.NotificationQueue, cfg.NotificationRoutingKey},
		{cfg.SearchQueue, cfg.SearchRoutingKey},
	}
	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, deadLetterArgs); err != nil {
			return err
		}
		if err := ch.QueueBind(b.queue, b.key, cfg.Exchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}
