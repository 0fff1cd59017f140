package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/bboodd/mini-shop/internal/config"
)

const recentViewKey = "recent_view:%s" // userID

// RecentViewStore 基于 Redis ZSet 的最近浏览记录：
// member 为商品 ID，score 为浏览时间毫秒（重复浏览以最新 score 覆盖），
// 超出上限裁掉最旧的条目。
type RecentViewStore struct {
	redis radix.Client
	cfg   *config.RecentViewConfig
	now   func() time.Time
}

// NewRecentViewStore 创建最近浏览存储
func NewRecentViewStore(redis radix.Client, cfg *config.RecentViewConfig) *RecentViewStore {
	return &RecentViewStore{redis: redis, cfg: cfg, now: time.Now}
}

func (s *RecentViewStore) key(userID string) string {
	return fmt.Sprintf(recentViewKey, userID)
}

// Add 记录一次浏览并裁剪到上限、刷新 TTL
func (s *RecentViewStore) Add(ctx context.Context, userID string, productID int64) error {
	key := s.key(userID)
	score := s.now().UnixMilli()
	member := strconv.FormatInt(productID, 10)

	if err := s.redis.Do(radix.FlatCmd(nil, "ZADD", key, score, member)); err != nil {
		return err
	}

	var size int64
	if err := s.redis.Do(radix.Cmd(&size, "ZCARD", key)); err != nil {
		return err
	}
	max := int64(s.cfg.Max)
	if max > 0 && size > max {
		// 按 score 从小到大裁掉最旧的 size-max 条
		stop := strconv.FormatInt(size-max-1, 10)
		if err := s.redis.Do(radix.Cmd(nil, "ZREMRANGEBYRANK", key, "0", stop)); err != nil {
			return err
		}
	}

	ttl := int(s.cfg.TTL.Seconds())
	return s.redis.Do(radix.Cmd(nil, "EXPIRE", key, strconv.Itoa(ttl)))
}

// ListIDs 按最新浏览在前返回商品 ID
func (s *RecentViewStore) ListIDs(ctx context.Context, userID string) ([]int64, error) {
	stop := strconv.Itoa(s.cfg.Max - 1)
	var members []string
	if err := s.redis.Do(radix.Cmd(&members, "ZREVRANGE", s.key(userID), "0", stop)); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *RecentViewStore) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := s.redis.Do(radix.Cmd(&n, "ZCARD", s.key(userID))); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *RecentViewStore) Remove(ctx context.Context, userID string, productID int64) error {
	member := strconv.FormatInt(productID, 10)
	return s.redis.Do(radix.Cmd(nil, "ZREM", s.key(userID), member))
}

func (s *RecentViewStore) Clear(ctx context.Context, userID string) error {
	return s.redis.Do(radix.Cmd(nil, "DEL", s.key(userID)))
}
