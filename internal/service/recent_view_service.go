package service

import (
	"context"
	"errors"

	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/errs"
)

// RecentViewService 最近浏览服务
type RecentViewService struct {
	store       RecentViewStore
	productRepo product.Repository
}

// NewRecentViewService 创建最近浏览服务
func NewRecentViewService(store RecentViewStore, productRepo product.Repository) *RecentViewService {
	return &RecentViewService{store: store, productRepo: productRepo}
}

// Add 记录一次浏览
func (s *RecentViewService) Add(ctx context.Context, userID string, productID int64) error {
	return s.store.Add(ctx, userID, productID)
}

// ListProducts 按最新在前返回最近浏览的商品，已下架/删除的跳过
func (s *RecentViewService) ListProducts(ctx context.Context, userID string) ([]*product.Product, error) {
	ids, err := s.store.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

// ListIDs 只返回商品 ID 列表
func (s *RecentViewService) ListIDs(ctx context.Context, userID string) ([]int64, error) {
	return s.store.ListIDs(ctx, userID)
}

// Count 返回最近浏览条数
func (s *RecentViewService) Count(ctx context.Context, userID string) (int64, error) {
	return s.store.Count(ctx, userID)
}

// Remove 移除单个商品的浏览记录
func (s *RecentViewService) Remove(ctx context.Context, userID string, productID int64) error {
	return s.store.Remove(ctx, userID, productID)
}

// Clear 清空浏览记录
func (s *RecentViewService) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
