package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/datamodels/cart"
	"github.com/bboodd/mini-shop/internal/datamodels/order"
	"github.com/bboodd/mini-shop/internal/errs"
	"github.com/bboodd/mini-shop/internal/messaging"
)

// OrderService 订单服务：下单编排、状态流转与查询
type OrderService struct {
	repo     order.Repository
	cart     *CartService
	products *ProductService
	events   EventPublisher
}

// NewOrderService 创建订单服务
func NewOrderService(repo order.Repository, cart *CartService, products *ProductService, events EventPublisher) *OrderService {
	return &OrderService{
		repo:     repo,
		cart:     cart,
		products: products,
		events:   events,
	}
}

// Place 下单编排：
//  1. 购物车为空直接失败；
//  2. 逐行按现货原子扣减库存（每次扣减各自带行锁），任一行失败则回补此前已扣的行；
//  3. 订单行取购物车快照价，总额为各行小计之和；
//  4. 订单与订单行整体落库，落库失败同样回补库存；
//  5. 订单创建事件发布失败向上抛（订单保留），通知事件与清车失败只记日志。
func (s *OrderService) Place(ctx context.Context, userID, customerName, customerEmail string) (*order.Order, error) {
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		GetMonitor().RecordOrderFailed()
		return nil, fmt.Errorf("用户 %s: %w", userID, errs.ErrEmptyCart)
	}

	decremented := make([]*cart.Line, 0, len(lines))
	rollback := func() {
		for _, line := range decremented {
			if err := s.products.RestoreStock(ctx, line.ProductID, line.Quantity); err != nil {
				zap.L().Error("stock compensation failed",
					zap.Int64("product_id", line.ProductID),
					zap.Int64("quantity", line.Quantity),
					zap.Error(err))
			}
		}
	}

	total := decimal.Zero
	orderLines := make([]order.Line, 0, len(lines))
	for _, line := range lines {
		// 以下单时刻的现货为准重新校验并扣减
		if _, err := s.products.DecreaseStock(ctx, line.ProductID, line.Quantity); err != nil {
			rollback()
			GetMonitor().RecordOrderFailed()
			return nil, err
		}
		decremented = append(decremented, line)

		orderLines = append(orderLines, order.Line{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price, // 快照价，不取现价
		})
		total = total.Add(line.Subtotal())
	}

	o := &order.Order{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		TotalAmount:   total,
		Status:        order.StatusPending,
		Lines:         orderLines,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		rollback()
		GetMonitor().RecordOrderFailed()
		return nil, fmt.Errorf("订单落库失败: %w", err)
	}

	// 订单创建事件是下游履约的触发点，发布失败对下单调用是致命的
	created := &messaging.OrderCreatedEvent{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		TotalAmount:   o.TotalAmount,
		CreatedAt:     o.CreatedAt,
	}
	if err := s.events.PublishOrderCreated(ctx, created); err != nil {
		GetMonitor().RecordPublishError()
		GetMonitor().RecordOrderFailed()
		return nil, fmt.Errorf("订单 %d 创建事件发布失败: %w", o.ID, err)
	}

	s.notify(ctx, o.CustomerEmail, messaging.NotifyOrderCreated, "Order Created",
		fmt.Sprintf("Order #%d has been created successfully", o.ID))

	if err := s.cart.Clear(ctx, userID); err != nil {
		zap.L().Error("failed to clear cart after order placement",
			zap.String("user_id", userID),
			zap.Int64("order_id", o.ID),
			zap.Error(err))
	}

	GetMonitor().RecordOrderPlaced()
	zap.L().Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.String("user_id", userID),
		zap.String("total_amount", o.TotalAmount.String()))
	return o, nil
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrderService) ListAll(ctx context.Context) ([]*order.Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *OrderService) ListByCustomerEmail(ctx context.Context, email string) ([]*order.Order, error) {
	return s.repo.ListByCustomerEmail(ctx, email)
}

func (s *OrderService) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("未知状态 %s: %w", status, errs.ErrInvalidStatusChange)
	}
	return s.repo.ListByStatus(ctx, status)
}

// UpdateStatus 按状态机流转订单状态并发送状态变更通知
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, next order.Status) (*order.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("未知状态 %s: %w", next, errs.ErrInvalidStatusChange)
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("订单 %d 不能从 %s 流转到 %s: %w", id, o.Status, next, errs.ErrInvalidStatusChange)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	prev := o.Status
	o.Status = next

	s.notify(ctx, o.CustomerEmail, messaging.NotifyOrderStatusUpdated, "Order Status Updated",
		fmt.Sprintf("Order #%d status has been updated to %s", o.ID, next))

	zap.L().Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("previous", string(prev)),
		zap.String("current", string(next)))
	return o, nil
}

// 通知事件尽力而为，失败只记日志
func (s *OrderService) notify(ctx context.Context, recipient, kind, title, message string) {
	event := &messaging.NotificationEvent{
		Recipient: recipient,
		Channel:   messaging.ChannelEmail,
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.events.PublishNotification(ctx, event); err != nil {
		GetMonitor().RecordPublishError()
		zap.L().Error("failed to publish NotificationEvent",
			zap.String("recipient", recipient),
			zap.String("kind", kind),
			zap.Error(err))
	}
}
