package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore 是进程内的缓存实现，不跨进程共享
type MemoryStore struct {
	items           map[string]Item
	mu              sync.RWMutex
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewMemoryStore 创建内存缓存，cleanupInterval > 0 时启动定期清理
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	c := &MemoryStore{
		items:           make(map[string]Item),
		cleanupInterval: cleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go c.startCleanupTimer()
	}

	return c
}

func (c *MemoryStore) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

// Set 覆盖已有的值和过期时间
func (c *MemoryStore) Set(_ context.Context, key, value string, expire int64) bool {
	c.mu.Lock()
	c.items[key] = Item{
		Value:      value,
		Expiration: expire,
		Created:    time.Now(),
	}
	c.mu.Unlock()
	return true
}

func (c *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return "", false
	}

	if item.Expired() {
		c.mu.Lock()
		// 读锁释放后可能已被重新写入
		if cur, ok := c.items[key]; ok && cur.Expired() {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return "", false
	}

	return item.Value, true
}

func (c *MemoryStore) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeleteExpired 删除所有过期的缓存项
func (c *MemoryStore) DeleteExpired() {
	at := now()
	c.mu.Lock()
	for k, v := range c.items {
		if expired(v.Expiration, at) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}

// Close 停止清理协程，可重复调用
func (c *MemoryStore) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}
