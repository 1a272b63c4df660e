package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"astrapix-server/internal/common/httpx"
	"astrapix-server/internal/config"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/db"
	"astrapix-server/internal/di"
	"astrapix-server/internal/integration/storage"
	"astrapix-server/internal/logger"
	"astrapix-server/internal/middleware"
	"astrapix-server/internal/service"
	"astrapix-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	config.InitConfig(*configDir)
	cfg := config.Get()

	if _, err := logger.Init(cfg.Server.Mode); err != nil {
		log.Fatalf("❌ 日志初始化失败: %v", err)
	}
	defer logger.Sync()
	l := logger.L()

	if err := utils.RegisterBindingValidators(); err != nil {
		l.Fatal("❌ 注册校验规则失败", zap.Error(err))
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		l.Fatal("❌ 数据库连接失败", zap.Error(err))
	}

	redisClient := service.NewRedisClient()

	objectStore, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		l.Fatal("❌ 对象存储初始化失败", zap.Error(err))
	}

	application, err := di.InitializeApplication(gdb, redisClient, objectStore)
	if err != nil {
		l.Fatal("❌ 应用初始化失败", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	applyTrustedProxies(r, cfg.Server.TrustedProxies)
	application.Router.Init(r)
	setupStaticFiles(r, objectStore)

	distFS := GetFrontendAssets()
	indexData := setupFrontend(r, distFS)
	r.NoRoute(getNoRouteHandler(distFS, indexData))

	// 导出模式
	if *exportRoutes {
		exportAPI(r)
		return // 导出后直接退出程序，不启动 Web 服务
	}

	printWelcomeMessage()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info("🚀 服务启动成功", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("❌ 服务启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("❌ 服务强制关闭", zap.Error(err))
	}
	if err := service.CloseRedisClient(redisClient); err != nil {
		l.Warn("⚠️ 关闭 Redis 失败", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	l.Info("✅ 服务已退出")
}

// applyTrustedProxies 按配置设置可信代理；留空表示不信任任何代理，列表非法时同样回退为不信任。
func applyTrustedProxies(r *gin.Engine, raw string) {
	proxies := splitTrustedProxyList(raw)
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	for _, p := range proxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			logger.L().Warn("⚠️ trusted_proxies 配置无效，已禁用代理信任", zap.String("value", p))
			_ = r.SetTrustedProxies(nil)
			return
		}
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		logger.L().Warn("⚠️ 设置可信代理失败，已禁用代理信任", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
}

func splitTrustedProxyList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// setupStaticFiles 本地存储驱动下由本服务提供生成图片的静态访问。
func setupStaticFiles(r *gin.Engine, objectStore storage.ObjectStore) {
	local, ok := objectStore.(*storage.LocalStore)
	if !ok || !strings.HasPrefix(local.URLPrefix(), "/") {
		return
	}
	checkSecurePath(local.Root())

	// 使用带缓存控制的静态文件服务
	r.Group(local.URLPrefix(), middleware.StaticCacheMiddleware()).
		StaticFS("", gin.Dir(local.Root(), false))
}

func getNoRouteHandler(distFS fs.FS, indexData []byte) gin.HandlerFunc {
	mediaPrefix := config.Get().Storage.URLPrefix
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/check/") {
			httpx.WriteError(c, http.StatusNotFound, "API not found")
			return
		}
		if mediaPrefix != "" && strings.HasPrefix(p, mediaPrefix) {
			httpx.WriteError(c, http.StatusNotFound, "image not found")
			return
		}
		if distFS == nil || indexData == nil {
			httpx.WriteError(c, http.StatusNotFound, "not found")
			return
		}

		// 尝试直接服务根目录下的静态文件 (如 favicon.ico, manifest.json)
		name := strings.TrimPrefix(p, "/")
		if name == "" {
			c.Data(http.StatusOK, "text/html; charset=utf-8", indexData)
			return
		}
		if f, err := distFS.Open(name); err == nil {
			stat, statErr := f.Stat()
			_ = f.Close()
			if statErr == nil && !stat.IsDir() {
				c.FileFromFS(name, http.FS(distFS))
				return
			}
		}

		// SPA 回退：服务 index.html 内容
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexData)
	}
}

func printWelcomeMessage() {
	frontendVersion := "未嵌入"
	if distFS := GetFrontendAssets(); distFS != nil {
		frontendVersion = "未知版本"
		if vData, err := fs.ReadFile(distFS, "version"); err == nil {
			frontendVersion = strings.TrimSpace(string(vData))
		}
	}
	cfg := config.Get()

	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  后端版本 : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   💻  前端版本 : %s\n", frontendVersion)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Printf(" │   🗄️  数据库   : %s\n", cfg.Database.Type)
	fmt.Printf(" │   🖼️  图片存储 : %s\n", cfg.Storage.Driver)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine) {
	routes := r.Routes()

	// 简单的结构体，只留关键信息
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	exportList := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, _ := json.MarshalIndent(exportList, "", "  ")
	if err := os.WriteFile("routes.json", file, 0o644); err != nil {
		logger.L().Error("❌ 导出路由失败", zap.Error(err))
		return
	}

	logger.L().Info("✅ 路由已成功导出到 routes.json", zap.Int("count", len(exportList)))
}

// checkSecurePath 拒绝把项目根目录或源码目录作为静态资源目录。
func checkSecurePath(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Fatalf("❌ 路径解析失败: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("❌ 无法获取当前工作目录: %v", err)
	}

	if absPath == cwd {
		log.Fatalf("❌ 安全配置错误: 静态资源目录 '%s' 不能设置为项目根目录！", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	// 位于工作目录内时，只允许这些子目录
	allowedDirs := []string{"uploads", "public", "static", "tmp", "data"}
	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(first, allowed) {
			return
		}
	}
	log.Fatalf("❌ 安全配置错误: 静态资源目录 '%s' 必须位于 %v 之一", path, allowedDirs)
}
