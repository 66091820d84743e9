package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xuenqlve/checkkit/data_source/redis"
	"github.com/xuenqlve/checkkit/errors"
)

// setNow 固定当前时间，测试结束后恢复
func setNow(t *testing.T, ts int64) {
	t.Helper()
	prev := now
	now = func() int64 { return ts }
	t.Cleanup(func() { now = prev })
}

// testStore 对所有实现执行相同的 TTL 语义检查
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	setNow(t, 1000)

	if _, found := s.Get(ctx, "missing"); found {
		t.Error("不应找到键 'missing'")
	}

	if !s.Set(ctx, "forever", "v0", NoExpiration) {
		t.Fatal("set forever failed")
	}
	if !s.Set(ctx, "future", "v1", 1001) {
		t.Fatal("set future failed")
	}
	if !s.Set(ctx, "now", "v2", 1000) {
		t.Fatal("set now failed")
	}
	if !s.Set(ctx, "past", "v3", 999) {
		t.Fatal("set past failed")
	}

	testCases := []struct {
		key   string
		value string
		found bool
	}{
		{"forever", "v0", true},
		{"future", "v1", true},
		{"now", "v2", true},
		{"past", "", false},
	}
	for _, tc := range testCases {
		value, found := s.Get(ctx, tc.key)
		if found != tc.found || value != tc.value {
			t.Errorf("Get(%q) = %q, %v; want %q, %v", tc.key, value, found, tc.value, tc.found)
		}
	}

	// 覆盖写入同时覆盖过期时间
	s.Set(ctx, "past", "v4", NoExpiration)
	if value, found := s.Get(ctx, "past"); !found || value != "v4" {
		t.Errorf("overwritten key = %q, %v", value, found)
	}

	setNow(t, 1002)
	if _, found := s.Get(ctx, "future"); found {
		t.Error("键 'future' 应该已过期")
	}
	if _, found := s.Get(ctx, "forever"); !found {
		t.Error("使用 NoExpiration 的键 'forever' 不应过期")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "cache.db")
	s, err := OpenSQLite(ctx, file)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)

	// 数据落盘，另一个连接可见
	other, err := OpenSQLite(ctx, file)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Close()
	if value, found := other.Get(ctx, "forever"); !found || value != "v0" {
		t.Errorf("second handle Get(forever) = %q, %v", value, found)
	}
}

func TestSQLiteStoreClosed(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if s.Set(ctx, "k", "v", 0) {
		t.Error("Set on a closed store must report false")
	}
	if _, found := s.Get(ctx, "k"); found {
		t.Error("Get on a closed store must report false")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CHECKKIT_REDIS_ADDR")
	if addr == "" {
		t.Skip("CHECKKIT_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := (&redis.Config{Address: addr}).Connect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	s := NewRedisStore(client)
	defer s.Close()
	// 使用真实时间附近的时间戳，避免服务端 EXPIREAT 提前删除
	base := time.Now().Unix()
	setNow(t, base)
	s.Set(ctx, "checkkit-test-past", "x", base-1)
	if _, found := s.Get(ctx, "checkkit-test-past"); found {
		t.Error("expired key returned")
	}
	s.Set(ctx, "checkkit-test-future", "y", base+60)
	if value, found := s.Get(ctx, "checkkit-test-future"); !found || value != "y" {
		t.Errorf("Get = %q, %v", value, found)
	}
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()
	setNow(t, 100)
	s.Set(ctx, "a", "1", 50)
	s.Set(ctx, "b", "2", 0)
	s.DeleteExpired()
	s.mu.RLock()
	_, hasA := s.items["a"]
	_, hasB := s.items["b"]
	s.mu.RUnlock()
	if hasA || !hasB {
		t.Errorf("after DeleteExpired: a=%v b=%v", hasA, hasB)
	}
	s.Delete("b")
	if _, found := s.Get(ctx, "b"); found {
		t.Error("删除后不应找到键 'b'")
	}
}

func TestMemoryStoreConcurrency(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()

	const workers = 10
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				s.Set(ctx, string(rune('A'+workerID)), "v", NoExpiration)
			}
		}(i)
	}
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				for k := 0; k < workers; k++ {
					s.Get(ctx, string(rune('A'+k)))
				}
			}
		}()
	}
	wg.Wait()
}

func TestMemoryStoreCloseTwice(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestConfig(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateAndSetDefault(); err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendSQLite || cfg.Filename != DefaultFilename || cfg.Path == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	err := (&Config{Backend: "etcd"}).ValidateAndSetDefault()
	if errors.Code(err) != errors.ErrCodeStore {
		t.Errorf("unknown backend error = %v", err)
	}
	err = (&Config{Backend: BackendRedis}).ValidateAndSetDefault()
	if errors.Cause(err) != ErrStore {
		t.Errorf("missing redis section error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &Config{Backend: BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}
	s.Close()

	s, err = Open(ctx, &Config{Path: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("Open(default) = %T", s)
	}
	if !s.Set(ctx, "k", "v", 0) {
		t.Error("set failed")
	}
}
