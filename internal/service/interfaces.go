package service

import (
	"context"

	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/messaging"
)

// EventPublisher 事件发布协作方，由 messaging.Publisher 实现
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *messaging.OrderCreatedEvent) error
	PublishStockUpdated(ctx context.Context, event *messaging.StockUpdatedEvent) error
	PublishNotification(ctx context.Context, event *messaging.NotificationEvent) error
	PublishSearchIndex(ctx context.Context, event *messaging.SearchIndexEvent) error
}

// RecentViewStore 最近浏览存储协作方，由 redisstore.RecentViewStore 实现
type RecentViewStore interface {
	Add(ctx context.Context, userID string, productID int64) error
	ListIDs(ctx context.Context, userID string) ([]int64, error)
	Count(ctx context.Context, userID string) (int64, error)
	Remove(ctx context.Context, userID string, productID int64) error
	Clear(ctx context.Context, userID string) error
}

// ProductSearcher 全文检索协作方，由 search.ProductIndex 实现
type ProductSearcher interface {
	Search(ctx context.Context, keyword string) ([]*product.Document, error)
}
