package service

import (
	"sync"
	"time"
)

// Monitor 进程内计数器，用于观察下单与事件链路的健康度
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	PublishErrors int64
	CacheErrors   int64
	ConsumeErrors int64

	// 业务统计
	OrdersPlaced     int64
	OrdersFailed     int64
	ConsumeProcessed int64

	// 时间统计
	LastPublishError time.Time
	LastOrderTime    time.Time
	LastConsumeTime  time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordPublishError 记录事件发布失败
func (m *Monitor) RecordPublishError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishErrors++
	m.LastPublishError = time.Now()
}

// RecordCacheError 记录缓存读写失败
func (m *Monitor) RecordCacheError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheErrors++
}

// RecordOrderPlaced 记录下单成功
func (m *Monitor) RecordOrderPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersPlaced++
	m.LastOrderTime = time.Now()
}

// RecordOrderFailed 记录下单失败
func (m *Monitor) RecordOrderFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersFailed++
}

// RecordConsumeProcessed 记录消费成功
func (m *Monitor) RecordConsumeProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConsumeProcessed++
	m.LastConsumeTime = time.Now()
}

// RecordConsumeError 记录消费失败
func (m *Monitor) RecordConsumeError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConsumeErrors++
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.OrdersPlaced + m.OrdersFailed
	successRate := float64(0)
	if total > 0 {
		successRate = float64(m.OrdersPlaced) / float64(total) * 100
	}

	return map[string]interface{}{
		"errors": map[string]interface{}{
			"publish": m.PublishErrors,
			"cache":   m.CacheErrors,
			"consume": m.ConsumeErrors,
		},
		"orders": map[string]interface{}{
			"placed":       m.OrdersPlaced,
			"failed":       m.OrdersFailed,
			"success_rate": successRate,
		},
		"consumers": map[string]interface{}{
			"processed": m.ConsumeProcessed,
		},
		"last_events": map[string]interface{}{
			"publish_error": m.LastPublishError,
			"order":         m.LastOrderTime,
			"consume":       m.LastConsumeTime,
		},
	}
}

// Reset 重置统计（测试用）
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishErrors = 0
	m.CacheErrors = 0
	m.ConsumeErrors = 0
	m.OrdersPlaced = 0
	m.OrdersFailed = 0
	m.ConsumeProcessed = 0
}
