package messaging

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOp 库存变动方向
type StockOp string

const (
	StockIncrease StockOp = "INCREASE"
	StockDecrease StockOp = "DECREASE"
)

// IndexOp 搜索索引操作
type IndexOp string

const (
	IndexCreate IndexOp = "INDEX"
	IndexUpdate IndexOp = "UPDATE"
	IndexDelete IndexOp = "DELETE"
)

// NotificationChannel 通知发送渠道
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
	ChannelPush  NotificationChannel = "PUSH"
)

// 通知事由
const (
	NotifyOrderCreated       = "ORDER_CREATED"
	NotifyOrderStatusUpdated = "ORDER_STATUS_UPDATED"
)

// OrderCreatedEvent 订单创建事实
type OrderCreatedEvent struct {
	OrderID       int64           `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StockUpdatedEvent 库存变动事实，携带变动前后数量与方向
type StockUpdatedEvent struct {
	ProductID     int64     `json:"product_id"`
	ProductName   string    `json:"product_name"`
	PreviousStock int64     `json:"previous_stock"`
	CurrentStock  int64     `json:"current_stock"`
	Operation     StockOp   `json:"operation"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NotificationEvent 客户通知请求
type NotificationEvent struct {
	Recipient string              `json:"recipient"`
	Channel   NotificationChannel `json:"channel"`
	Kind      string              `json:"kind"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"created_at"`
}

// SearchIndexEvent 搜索索引同步请求
type SearchIndexEvent struct {
	ProductID int64     `json:"product_id"`
	Operation IndexOp   `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}
