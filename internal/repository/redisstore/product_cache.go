package redisstore

import (
	"context"
	"encoding/json"
	"strconv"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/datamodels/product"
)

const productListKey = "products:all"

// ProductCache 商品全量列表缓存，仅服务于“查询全部商品”这一条读路径
type ProductCache struct {
	redis radix.Client
	cfg   *config.CacheConfig
}

// NewProductCache 创建商品列表缓存
func NewProductCache(redis radix.Client, cfg *config.CacheConfig) *ProductCache {
	return &ProductCache{redis: redis, cfg: cfg}
}

// GetList 命中返回缓存列表，未命中返回 (nil, nil)
func (c *ProductCache) GetList(ctx context.Context) ([]*product.Product, error) {
	var raw string
	if err := c.redis.Do(radix.Cmd(&raw, "GET", productListKey)); err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var list []*product.Product
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// 缓存坏了当未命中处理，由调用方回源后覆盖
		return nil, nil
	}
	return list, nil
}

func (c *ProductCache) SetList(ctx context.Context, list []*product.Product) error {
	body, err := json.Marshal(list)
	if err != nil {
		return err
	}
	ttl := strconv.Itoa(int(c.cfg.ProductListTTL.Seconds()))
	return c.redis.Do(radix.FlatCmd(nil, "SETEX", productListKey, ttl, body))
}

func (c *ProductCache) Evict(ctx context.Context) error {
	return c.redis.Do(radix.Cmd(nil, "DEL", productListKey))
}
