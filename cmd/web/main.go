package main

import (
	"flag"
	"log"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/logger"
	"github.com/bboodd/mini-shop/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径，缺省时使用默认配置+环境变量")
		debug      = flag.Bool("debug", false, "开发模式日志")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	l, err := logger.Init(*debug)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer l.Sync()

	app := iris.New()
	server.RegisterRoutes(app, cfg)

	addr := cfg.Server.Addr()
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := app.Run(iris.Addr(addr)); err != nil {
		zap.L().Fatal("failed to run web server", zap.Error(err))
	}
}
