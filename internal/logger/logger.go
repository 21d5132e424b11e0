package logger

import (
	"log"

	"go.uber.org/zap"

	"github.com/example/salestats/internal/config"
)

// Init 初始化全局 zap 日志器并通过 zap.ReplaceGlobals 安装
func Init(cfg *config.LogConfig) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if cfg != nil && cfg.Mode == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	return l
}
