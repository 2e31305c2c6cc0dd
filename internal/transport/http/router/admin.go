package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/server"
	"go-gin-mongo-users/internal/feature/user"
	mdw "go-gin-mongo-users/internal/transport/http/middleware"
)

// NewAdminEngine 管理端引擎：ginzap 访问日志 + /metrics 暴露。
func NewAdminEngine(l *zap.Logger, svc *user.Service) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	MountAllAdmin(admin)
	MountAdminActions(admin, svc)

	return r
}
