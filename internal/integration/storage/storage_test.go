package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"astrapix-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证对象键包含前缀、用户 ID 与扩展名。
func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("/generations/", 42, ".png")
	assert.True(t, strings.HasPrefix(key, "generations/users/42/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.NotEqual(t, key, NewObjectKey("generations", 42, "png"))
}

// 测试内容：验证本地存储写入、返回 URL 与删除。
func TestLocalStore_PutDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "users/1/a.png", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/users/1/a.png", url)

	b, err := os.ReadFile(filepath.Join(root, "users", "1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(b))

	require.NoError(t, s.Delete(context.Background(), "users/1/a.png"))
	_, err = os.Stat(filepath.Join(root, "users", "1", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// 重复删除不报错
	assert.NoError(t, s.Delete(context.Background(), "users/1/a.png"))
}

// 测试内容：验证本地存储拒绝越界路径。
func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../etc/passwd", []byte("x"), "text/plain")
	assert.Error(t, err)
}

// 测试内容：验证 S3 存储通过 path-style 请求上传与删除对象，并拼接公开 URL。
func TestS3Store_PutDelete(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s, err := NewS3Store(context.Background(), config.StorageConfig{
		Bucket:        "astrapix",
		Region:        "us-east-1",
		Endpoint:      srv.URL,
		AccessKey:     "minio",
		SecretKey:     "minio123",
		PublicBaseURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "users/1/a.png", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/users/1/a.png", url)

	require.NoError(t, s.Delete(context.Background(), "users/1/a.png"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /astrapix/users/1/a.png", "DELETE /astrapix/users/1/a.png"}, calls)
	assert.Contains(t, string(body), "img")
}

// 测试内容：验证未配置 bucket 或未知驱动时返回错误。
func TestNew_Errors(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "s3"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	s, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)
}
