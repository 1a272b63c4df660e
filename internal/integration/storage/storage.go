// Package storage 保存生成的图片并返回可公开访问的 URL。
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"astrapix-server/internal/config"

	"github.com/google/uuid"
)

// ObjectStore 图片对象存储。
type ObjectStore interface {
	// Put 写入对象并返回其公开 URL。
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewObjectKey 生成形如 prefix/users/<id>/2026/01/02/<uuid>.png 的对象键。
func NewObjectKey(prefix string, userID uint, ext string) string {
	d := time.Now().UTC()
	name := uuid.NewString()
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return path.Join(strings.Trim(prefix, "/"), "users", fmt.Sprint(userID),
		fmt.Sprintf("%04d/%02d/%02d", d.Year(), int(d.Month()), d.Day()), name)
}

// New 按配置的驱动创建对象存储。
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.URLPrefix)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
