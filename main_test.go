package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"astrapix-server/internal/config"
	"astrapix-server/internal/integration/storage"
	"astrapix-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：为 main 包测试初始化配置环境并在结束时清理。
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "astrapix-main-config-*")
	if err != nil {
		panic(err)
	}

	envs := []testutils.SavedEnv{
		testutils.SetEnv("ASTRAPIX_SERVER_MODE", "debug"),
		testutils.SetEnv("ASTRAPIX_JWT_SECRET", "test_secret"),
		testutils.SetEnv("ASTRAPIX_JWT_EXPIRATION_HOURS", "24"),
		testutils.SetEnv("ASTRAPIX_STORAGE_URL_PREFIX", "/media/"),
		testutils.SetEnv("ASTRAPIX_REDIS_ENABLED", "false"),
	}
	config.InitConfig(tmpDir)
	gin.SetMode(gin.TestMode)

	code := m.Run()

	testutils.RestoreEnv(envs)
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

// 测试内容：验证 splitTrustedProxyList 能正确拆分代理列表。
func TestSplitTrustedProxyList(t *testing.T) {
	got := splitTrustedProxyList(" 1.1.1.1,2.2.2.2; 3.3.3.3 \n4.4.4.4\t")
	assert.Equal(t, []string{"1.1.1.1", "2.2.2.2", "3.3.3.3", "4.4.4.4"}, got)
	assert.Empty(t, splitTrustedProxyList("  "))
}

// 测试内容：验证未启用 embed 构建时前端资源与 index 数据为空。
func TestEmbedDisabledFrontendHooks(t *testing.T) {
	assert.Nil(t, GetFrontendAssets())
	assert.Nil(t, setupFrontend(gin.New(), nil))
}

// 测试内容：验证 exportAPI 会写出有效的 routes.json 路由列表。
func TestExportAPI_WritesRoutesJSON(t *testing.T) {
	tmp := t.TempDir()
	oldwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	defer func() { _ = os.Chdir(oldwd) }()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	exportAPI(r)

	b, err := os.ReadFile("routes.json")
	require.NoError(t, err)
	var routes []map[string]any
	require.NoError(t, json.Unmarshal(b, &routes))
	assert.NotEmpty(t, routes)
}

// 测试内容：验证 NoRoute 处理在 API/图片路径返回 404，其余路径回退到 index，静态文件可被服务。
func TestGetNoRouteHandler(t *testing.T) {
	dist := fstest.MapFS{
		"favicon.ico": &fstest.MapFile{Data: []byte("ico")},
	}
	indexData := []byte("<html>index</html>")

	r := gin.New()
	r.NoRoute(getNoRouteHandler(dist, indexData))

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := serve("/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"API not found"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve("/media/nope.png").Code)

	w = serve("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "index")

	// 前端路由回退到 index
	w = serve("/auth/callback")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "index")

	w = serve("/favicon.ico")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ico", w.Body.String())
}

// 测试内容：验证 dist 为空时 NoRoute 对任意路径返回 404。
func TestGetNoRouteHandler_DistFSNil(t *testing.T) {
	r := gin.New()
	r.NoRoute(getNoRouteHandler(nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/any", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// 测试内容：验证 trusted_proxies 配置对信任代理的影响：空值禁用、有效列表生效、无效列表回退。
func TestApplyTrustedProxies(t *testing.T) {
	getClientIP := func(raw string) string {
		r := gin.New()
		applyTrustedProxies(r, raw)
		r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.10, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return strings.TrimSpace(w.Body.String())
	}

	assert.Equal(t, "10.0.0.1", getClientIP(""))
	assert.Equal(t, "203.0.113.10", getClientIP("127.0.0.1,10.0.0.0/8"))
	assert.Equal(t, "10.0.0.1", getClientIP("not-a-cidr"))
}

// 测试内容：验证本地存储驱动下生成图片可通过 URL 前缀访问并带缓存头，S3 驱动不挂载。
func TestSetupStaticFiles_ServesLocalStore(t *testing.T) {
	tmp := t.TempDir()
	oldwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	defer func() { _ = os.Chdir(oldwd) }()

	store, err := storage.NewLocalStore("uploads/generations", "/media/")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join("uploads", "generations", "users", "1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("uploads", "generations", "users", "1", "a.png"), []byte("png"), 0o644))

	r := gin.New()
	setupStaticFiles(r, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/users/1/a.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.Get().Storage.CacheControl, w.Header().Get("Cache-Control"))

	r2 := gin.New()
	setupStaticFiles(r2, testutils.NewFakeObjectStore())
	assert.Empty(t, r2.Routes())
}

// 测试内容：验证欢迎信息打印函数在测试配置下可执行。
func TestPrintWelcomeMessage(t *testing.T) {
	printWelcomeMessage()
}
