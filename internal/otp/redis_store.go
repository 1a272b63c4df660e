package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// expiredGrace 让过期条目在 redis 中多保留一段时间，以便区分"过期"与"不存在"。
	expiredGrace = 5 * time.Minute
	maxCASRetry  = 3
)

// RedisStore 以 redis 为后端，跨进程与重启可见。
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":otp:" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return decodeEntry(raw)
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := time.Until(entry.ExpiresAt) + expiredGrace
	if ttl <= 0 {
		// 负值会让 go-redis 写入永不过期的键
		ttl = expiredGrace
	}
	return s.client.Set(ctx, s.key(key), payload, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Consume 使用 WATCH/MULTI 保证校验与删除之间条目未被并发修改。
func (s *RedisStore) Consume(ctx context.Context, key, code string, now time.Time) error {
	redisKey := s.key(key)

	for i := 0; i < maxCASRetry; i++ {
		var result error
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, redisKey).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					result = ErrNotFound
					return nil
				}
				return err
			}
			entry, err := decodeEntry(raw)
			if err != nil {
				return err
			}

			result = check(entry, code, now)
			if result == ErrMismatch {
				return nil
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, redisKey)
				return nil
			})
			return err
		}, redisKey)

		if errors.Is(err, redis.TxFailedErr) {
			// 条目在校验期间被覆盖或消费，重新读取
			continue
		}
		if err != nil {
			return err
		}
		return result
	}
	return ErrNotFound
}

func decodeEntry(raw []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
