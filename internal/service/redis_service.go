package service

import (
	"context"
	"fmt"
	"time"

	"astrapix-server/internal/config"
	"astrapix-server/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient 按配置连接 Redis；未启用或不可用时返回 nil，调用方降级为内存模式。
func NewRedisClient() *redis.Client {
	cfg := config.Get()
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.L().Warn("⚠️ Redis 不可用，降级为内存模式", zap.Error(err))
		return nil
	}

	logger.L().Info("✅ Redis 已连接", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
	return client
}

// RedisPrefix 返回配置的键前缀。
func RedisPrefix() string {
	prefix := config.Get().Redis.Prefix
	if prefix == "" {
		prefix = "astrapix"
	}
	return prefix
}

// RedisKey 基于配置前缀拼接 Redis 键名。
func RedisKey(parts ...string) string {
	key := RedisPrefix()
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// CloseRedisClient 关闭 Redis 客户端连接。
func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("close redis failed: %w", err)
	}
	return nil
}
