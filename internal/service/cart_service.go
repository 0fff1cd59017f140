package service

import (
	"context"
	"fmt"

	"github.com/bboodd/mini-shop/internal/datamodels/cart"
	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/errs"
)

// CartService 购物车服务。行内名称/单价是加购时的快照，
// 后续改价不会反映到已有购物车。
type CartService struct {
	store       cart.Store
	productRepo product.Repository
}

// NewCartService 创建购物车服务
func NewCartService(store cart.Store, productRepo product.Repository) *CartService {
	return &CartService{store: store, productRepo: productRepo}
}

// Add 加购：校验现货充足后写入快照行
func (s *CartService) Add(ctx context.Context, userID string, productID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("数量必须大于 0: %w", errs.ErrInvalidCartItem)
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return fmt.Errorf("商品 %s 仅剩 %d 件: %w", p.Name, p.Stock, errs.ErrInsufficientStock)
	}

	line := &cart.Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    qty,
	}
	return s.store.Put(ctx, userID, line)
}

// Lines 读取用户全部购物车行
func (s *CartService) Lines(ctx context.Context, userID string) ([]*cart.Line, error) {
	return s.store.Lines(ctx, userID)
}

// UpdateQuantity 修改已有行的数量，保留原快照价
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("数量必须大于 0: %w", errs.ErrInvalidCartItem)
	}

	line, err := s.store.Get(ctx, userID, productID)
	if err != nil {
		return err
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return fmt.Errorf("商品 %s 仅剩 %d 件: %w", p.Name, p.Stock, errs.ErrInsufficientStock)
	}

	line.Quantity = qty
	return s.store.Put(ctx, userID, line)
}

// Remove 删除单行
func (s *CartService) Remove(ctx context.Context, userID string, productID int64) error {
	return s.store.Remove(ctx, userID, productID)
}

// Clear 清空整车
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
