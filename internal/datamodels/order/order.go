package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Valid 是否为已知状态
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// 状态机：PENDING → {CONFIRMED, CANCELLED}
//         CONFIRMED → {SHIPPED, CANCELLED}
//         SHIPPED → DELIVERED
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransitionTo 判断状态流转是否合法
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Line 订单行，单价为下单时的快照
type Line struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	OrderID   int64           `gorm:"index;not null" json:"order_id"`
	ProductID int64           `gorm:"index;not null" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// Subtotal 行小计 = 快照单价 × 数量
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Order 订单模型，独占其订单行（删除订单级联删除行）
type Order struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	CustomerName  string          `gorm:"size:64;not null" json:"customer_name"`
	CustomerEmail string          `gorm:"size:128;index;not null" json:"customer_email"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status        Status          `gorm:"size:16;index;not null" json:"status"`
	Lines         []Line          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Repository 订单仓储接口
type Repository interface {
	// Create 将订单与订单行作为一个整体落库
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
