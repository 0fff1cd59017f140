package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line 购物车行，名称与单价为加购时的快照
type Line struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

// Subtotal 行小计 = 快照单价 × 数量
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Store 购物车存储接口。整个购物车在固定窗口后过期，读取不续期。
type Store interface {
	Put(ctx context.Context, userID string, line *Line) error
	// Get 返回指定商品行；行不存在返回 errs.ErrNotFound，
	// 缓存内容无法解析返回 errs.ErrInvalidCartItem。
	Get(ctx context.Context, userID string, productID int64) (*Line, error)
	// Lines 返回用户全部行，无法解析的行记日志后跳过
	Lines(ctx context.Context, userID string) ([]*Line, error)
	Remove(ctx context.Context, userID string, productID int64) error
	Clear(ctx context.Context, userID string) error
}
