package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/logging"
)

//go:generate swag init -g main.go -d ./,../../internal/api,../../internal/station,../../internal/protocol/rfd -o ../../internal/docs --outputTypes go

// @title RFD Station Control API
// @version 1.0
// @description RFD900 图像链路地面站控制接口
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	configPath := flag.String("config", "", "config file path (defaults to $RFD_CONFIG or configs/example.yaml)")
	flag.Parse()

	// 1) 加载配置
	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// 3) 启动
	if err := bootstrap.Run(cfg, zap.L()); err != nil {
		zap.L().Fatal("rfd station exited", zap.Error(err))
	}
}
