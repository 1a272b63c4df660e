//go:build !embed

package main

import (
	"io/fs"

	"github.com/gin-gonic/gin"
)

// GetFrontendAssets 纯后端模式（前端单独部署）返回 nil
func GetFrontendAssets() fs.FS {
	return nil
}

func setupFrontend(_ *gin.Engine, _ fs.FS) []byte {
	return nil
}
