//go:build embed

package main

import (
	"embed"
	"io/fs"
	"net/http"

	"astrapix-server/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 构建前把前端产物复制到 frontend/ 目录，再带上 -tags embed 编译
//
//go:embed all:frontend
var embedFS embed.FS

// GetFrontendAssets 返回嵌入的前端文件系统
func GetFrontendAssets() fs.FS {
	f, err := fs.Sub(embedFS, "frontend")
	if err != nil {
		panic(err)
	}
	return f
}

// setupFrontend 挂载 /assets 并返回 index.html 内容，供 SPA 回退使用。
func setupFrontend(r *gin.Engine, distFS fs.FS) []byte {
	if assetsFS, err := fs.Sub(distFS, "assets"); err == nil {
		r.StaticFS("/assets", http.FS(assetsFS))
	} else {
		logger.L().Warn("⚠️ 无法挂载 frontend/assets", zap.Error(err))
	}

	indexData, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		logger.L().Fatal("❌ 无法读取嵌入的 frontend/index.html", zap.Error(err))
	}
	return indexData
}
