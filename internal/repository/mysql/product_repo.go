package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/errs"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("商品 %d: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	var list []*product.Product
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) ListByCategory(ctx context.Context, category string) ([]*product.Product, error) {
	var list []*product.Product
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&product.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("商品 %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

// AdjustStock 行锁内加减库存，保证单个商品的扣减原子性
func (r *productRepo) AdjustStock(ctx context.Context, id, delta int64) (*product.Product, int64, error) {
	var (
		p    product.Product
		prev int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("商品 %d: %w", id, errs.ErrNotFound)
			}
			return err
		}

		prev = p.Stock
		next := p.Stock + delta
		if next < 0 {
			return fmt.Errorf("商品 %d 需要 %d 件: %w", id, -delta, errs.ErrInsufficientStock)
		}

		p.Stock = next
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return &p, prev, nil
}
