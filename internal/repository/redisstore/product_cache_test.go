package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/datamodels/product"
)

func TestProductCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, client := newTestRedis(t)
	cache := NewProductCache(client, &config.CacheConfig{ProductListTTL: 10 * time.Minute})

	// 空缓存是未命中，不是错误
	list, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, list)

	stored := []*product.Product{
		{ID: 1, Name: "键盘", Price: decimal.NewFromInt(1000), Stock: 5},
		{ID: 2, Name: "鼠标", Price: decimal.NewFromInt(500), Stock: 3},
	}
	require.NoError(t, cache.SetList(ctx, stored))
	assert.Equal(t, 10*time.Minute, s.TTL("products:all"))

	list, err = cache.GetList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "键盘", list[0].Name)
	assert.True(t, list[0].Price.Equal(decimal.NewFromInt(1000)))
}

func TestProductCacheExpires(t *testing.T) {
	ctx := context.Background()
	s, client := newTestRedis(t)
	cache := NewProductCache(client, &config.CacheConfig{ProductListTTL: 10 * time.Minute})

	require.NoError(t, cache.SetList(ctx, []*product.Product{{ID: 1, Name: "键盘"}}))
	s.FastForward(10*time.Minute + time.Second)

	list, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestProductCacheEvict(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	cache := NewProductCache(client, &config.CacheConfig{ProductListTTL: 10 * time.Minute})

	require.NoError(t, cache.SetList(ctx, []*product.Product{{ID: 1, Name: "键盘"}}))
	require.NoError(t, cache.Evict(ctx))

	list, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestProductCacheBadPayloadIsMiss(t *testing.T) {
	ctx := context.Background()
	s, client := newTestRedis(t)
	cache := NewProductCache(client, &config.CacheConfig{ProductListTTL: 10 * time.Minute})

	require.NoError(t, s.Set("products:all", "not-json"))

	list, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, list)
}
