package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xuenqlve/checkkit/log"
)

const (
	fieldValue  = "value"
	fieldExpire = "expire"
)

// RedisStore keeps each key as a hash {value, expire}. Expiry is checked on
// read with the same rule as the other stores; the server-side EXPIREAT only
// garbage-collects keys a second after they stop being readable.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Set(ctx context.Context, key, value string, expire int64) bool {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldValue, value, fieldExpire, expire)
		if expire == NoExpiration {
			pipe.Persist(ctx, key)
		} else {
			pipe.ExpireAt(ctx, key, time.Unix(expire+1, 0))
		}
		return nil
	})
	if err != nil {
		log.Warnf("cache set %q in redis failed: %v", key, err)
		return false
	}
	return true
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	vals, err := r.client.HMGet(ctx, key, fieldValue, fieldExpire).Result()
	if err != nil {
		log.Warnf("cache get %q from redis failed: %v", key, err)
		return "", false
	}
	value, ok := vals[0].(string)
	if !ok {
		return "", false
	}
	expireText, _ := vals[1].(string)
	expire, err := strconv.ParseInt(expireText, 10, 64)
	if err != nil {
		log.Warnf("cache key %q has a bad expire field %q", key, expireText)
		return "", false
	}
	if expired(expire, now()) {
		return "", false
	}
	return value, true
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
