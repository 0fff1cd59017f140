package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/messaging"
)

// ProductService 商品服务：CRUD、列表缓存、库存调整与事件发布
type ProductService struct {
	repo   product.Repository
	cache  product.Cache
	search ProductSearcher
	events EventPublisher
}

// NewProductService 创建商品服务
func NewProductService(repo product.Repository, cache product.Cache, search ProductSearcher, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  cache,
		search: search,
		events: events,
	}
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll 查询全部商品，走列表缓存（read-through，TTL 由缓存侧控制）
func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	cached, err := s.cache.GetList(ctx)
	if err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("product list cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, list); err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("product list cache write failed", zap.Error(err))
	}
	return list, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]*product.Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// Search 走搜索索引做名称+描述全文检索
func (s *ProductService) Search(ctx context.Context, keyword string) ([]*product.Document, error) {
	return s.search.Search(ctx, keyword)
}

// Create 新建商品：落库、失效列表缓存、请求建立索引
func (s *ProductService) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.evictList(ctx)
	s.publishSearchIndex(ctx, p.ID, messaging.IndexCreate)
	return p, nil
}

// Update 全量更新商品；净库存变化时发布库存变动事件
func (s *ProductService) Update(ctx context.Context, id int64, upd *product.Product) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStock := p.Stock
	p.Name = upd.Name
	p.Description = upd.Description
	p.Price = upd.Price
	p.Stock = upd.Stock
	p.Category = upd.Category

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.evictList(ctx)

	if prevStock != p.Stock {
		op := messaging.StockIncrease
		if p.Stock < prevStock {
			op = messaging.StockDecrease
		}
		s.publishStockUpdated(ctx, p, prevStock, op)
	}
	s.publishSearchIndex(ctx, p.ID, messaging.IndexUpdate)
	return p, nil
}

// Delete 删除商品并请求移除索引
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evictList(ctx)
	s.publishSearchIndex(ctx, id, messaging.IndexDelete)
	return nil
}

// DecreaseStock 原子扣减库存，库存不足返回 errs.ErrInsufficientStock
func (s *ProductService) DecreaseStock(ctx context.Context, id, qty int64) (*product.Product, error) {
	p, prev, err := s.repo.AdjustStock(ctx, id, -qty)
	if err != nil {
		return nil, err
	}
	s.evictList(ctx)
	s.publishStockUpdated(ctx, p, prev, messaging.StockDecrease)
	return p, nil
}

// RestoreStock 回补库存（下单失败的补偿路径）
func (s *ProductService) RestoreStock(ctx context.Context, id, qty int64) error {
	p, prev, err := s.repo.AdjustStock(ctx, id, qty)
	if err != nil {
		return err
	}
	s.evictList(ctx)
	s.publishStockUpdated(ctx, p, prev, messaging.StockIncrease)
	return nil
}

// 缓存失效失败只记日志，不影响主流程
func (s *ProductService) evictList(ctx context.Context) {
	if err := s.cache.Evict(ctx); err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("product list cache evict failed", zap.Error(err))
	}
}

// 库存事件是尽力而为的，发布失败吞掉只记日志
func (s *ProductService) publishStockUpdated(ctx context.Context, p *product.Product, prev int64, op messaging.StockOp) {
	event := &messaging.StockUpdatedEvent{
		ProductID:     p.ID,
		ProductName:   p.Name,
		PreviousStock: prev,
		CurrentStock:  p.Stock,
		Operation:     op,
		UpdatedAt:     time.Now(),
	}
	if err := s.events.PublishStockUpdated(ctx, event); err != nil {
		GetMonitor().RecordPublishError()
		zap.L().Error("failed to publish StockUpdatedEvent",
			zap.Int64("product_id", p.ID),
			zap.Error(err))
	}
}

// 索引事件同样尽力而为
func (s *ProductService) publishSearchIndex(ctx context.Context, productID int64, op messaging.IndexOp) {
	event := &messaging.SearchIndexEvent{
		ProductID: productID,
		Operation: op,
		Timestamp: time.Now(),
	}
	if err := s.events.PublishSearchIndex(ctx, event); err != nil {
		GetMonitor().RecordPublishError()
		zap.L().Error("failed to publish SearchIndexEvent",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}
}
