package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/nutritrack/internal/config"
	"github.com/nutritrack/internal/db"
	"github.com/nutritrack/internal/router"
)

func main() {
	// .env 不存在时忽略，直接读进程环境变量
	_ = godotenv.Load()

	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
