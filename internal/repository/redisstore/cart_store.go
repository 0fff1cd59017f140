package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/datamodels/cart"
	"github.com/bboodd/mini-shop/internal/errs"
)

const cartKey = "cart:%s" // userID

// CartStore 基于 Redis Hash 的购物车存储：
// field 为商品 ID，value 为 JSON 序列化的快照行，整个 key 统一过期。
type CartStore struct {
	redis radix.Client
	cfg   *config.CartConfig
}

// NewCartStore 创建购物车存储
func NewCartStore(redis radix.Client, cfg *config.CartConfig) *CartStore {
	return &CartStore{redis: redis, cfg: cfg}
}

func (s *CartStore) key(userID string) string {
	return fmt.Sprintf(cartKey, userID)
}

// Put 写入/覆盖一行并刷新整车 TTL（只有写入续期，读取不续期）
func (s *CartStore) Put(ctx context.Context, userID string, line *cart.Line) error {
	body, err := json.Marshal(line)
	if err != nil {
		return err
	}

	key := s.key(userID)
	field := strconv.FormatInt(line.ProductID, 10)
	if err := s.redis.Do(radix.FlatCmd(nil, "HSET", key, field, body)); err != nil {
		return err
	}
	ttl := int(s.cfg.TTL.Seconds())
	return s.redis.Do(radix.Cmd(nil, "EXPIRE", key, strconv.Itoa(ttl)))
}

func (s *CartStore) Get(ctx context.Context, userID string, productID int64) (*cart.Line, error) {
	var raw string
	field := strconv.FormatInt(productID, 10)
	if err := s.redis.Do(radix.Cmd(&raw, "HGET", s.key(userID), field)); err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("购物车行 product=%d: %w", productID, errs.ErrNotFound)
	}

	var line cart.Line
	if err := json.Unmarshal([]byte(raw), &line); err != nil {
		return nil, fmt.Errorf("购物车行 product=%d: %w", productID, errs.ErrInvalidCartItem)
	}
	return &line, nil
}

// Lines 读取全部行，坏数据记日志后跳过
func (s *CartStore) Lines(ctx context.Context, userID string) ([]*cart.Line, error) {
	var raws []string
	if err := s.redis.Do(radix.Cmd(&raws, "HVALS", s.key(userID))); err != nil {
		return nil, err
	}

	lines := make([]*cart.Line, 0, len(raws))
	for _, raw := range raws {
		var line cart.Line
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			zap.L().Warn("skip invalid cart line",
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		lines = append(lines, &line)
	}
	return lines, nil
}

func (s *CartStore) Remove(ctx context.Context, userID string, productID int64) error {
	field := strconv.FormatInt(productID, 10)
	return s.redis.Do(radix.Cmd(nil, "HDEL", s.key(userID), field))
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	return s.redis.Do(radix.Cmd(nil, "DEL", s.key(userID)))
}
