package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 将图片写入本地目录，由 HTTP 服务以 urlPrefix 静态提供，开发环境使用。
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		root = "uploads/generations"
	}
	if urlPrefix == "" {
		urlPrefix = "/media/"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: urlPrefix}, nil
}

// Root 返回本地存储根目录。
func (s *LocalStore) Root() string { return s.root }

// URLPrefix 返回静态访问前缀。
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

// resolve 把对象键映射到根目录内的绝对路径，拒绝越界路径。
func (s *LocalStore) resolve(key string) (string, error) {
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(rootAbs, filepath.FromSlash(key))
	rel, err := filepath.Rel(rootAbs, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", errors.New("invalid object key")
	}
	return full, nil
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return joinURL(s.urlPrefix, key), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
