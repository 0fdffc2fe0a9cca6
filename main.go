package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"jbt-blog/config"
	"jbt-blog/internal/database"
	"jbt-blog/internal/handler"
	"jbt-blog/internal/logger"
	"jbt-blog/internal/scheduler"
	"jbt-blog/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New(config.Default().Log)
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log)
	log.Info().Str("config", cfg.File).Msg("Starting blog server...")

	// 初始化数据库
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect database")
	}
	defer database.Close(db)

	// 启动定时导入
	sched := scheduler.NewScheduler(service.NewFeedService(db, log), cfg.Import, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	// 初始化Gin
	gin.SetMode(cfg.Server.Mode)
	h := handler.NewHandler(db, cfg, log)
	h.SetScheduler(sched)

	router, err := handler.NewRouter(h, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}
