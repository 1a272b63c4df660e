package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

// Init 根据运行模式构建全局 logger：release 输出 JSON，其余模式输出彩色控制台格式。
func Init(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == "release" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set 替换全局 logger。
func Set(l *zap.Logger) {
	current.Store(l)
	zap.ReplaceGlobals(l)
}

// L 返回全局 logger；未初始化时返回 no-op logger。
func L() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Sync 刷新缓冲区，退出前调用。
func Sync() {
	_ = L().Sync()
}
