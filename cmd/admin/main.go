package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/cache"
	"go-gin-mongo-users/internal/core/config"
	"go-gin-mongo-users/internal/core/database"
	"go-gin-mongo-users/internal/core/logger"
	"go-gin-mongo-users/internal/core/server"
	"go-gin-mongo-users/internal/feature/user"
	"go-gin-mongo-users/internal/repo"
	"go-gin-mongo-users/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	client, db, err := database.NewMongo(database.Opts{
		URI:               cfg.Mongo.URI,
		Database:          cfg.Mongo.Database,
		ConnectTimeoutSec: cfg.Mongo.ConnectTimeoutSec,
		MaxPoolSize:       cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal("mongo open", zap.Error(err))
	}
	defer database.Close(client)
	log.Info("mongo connected", zap.String("database", cfg.Mongo.Database))

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer c.Close()
	}

	svc := user.NewService(
		repo.NewUserRepo(db), c, log,
		time.Duration(cfg.Stats.CacheTTLSec)*time.Second,
	)

	// 路由（后台端）
	r := router.NewAdminEngine(log, svc)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}
