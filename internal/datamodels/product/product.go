package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品模型
type Product struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:128;not null" json:"name"`
	Description string          `gorm:"size:512" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int64           `gorm:"not null" json:"stock"` // 不变量：永不为负
	Category    string          `gorm:"size:32;index" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Document 搜索索引里的商品文档（按 id 去范式化）
type Document struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListByCategory(ctx context.Context, category string) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	// AdjustStock 对单个商品原子加减库存，返回调整后的商品与调整前库存。
	// 结果为负时返回 errs.ErrInsufficientStock 且不落库。
	AdjustStock(ctx context.Context, id, delta int64) (p *Product, prevStock int64, err error)
}

// Cache 商品全量列表缓存接口
type Cache interface {
	GetList(ctx context.Context) ([]*Product, error)
	SetList(ctx context.Context, list []*Product) error
	Evict(ctx context.Context) error
}
