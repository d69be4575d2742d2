package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/api/middleware"
	_ "github.com/taoyao-code/rfd-station/internal/docs"
)

// RouteOptions 路由选项
type RouteOptions struct {
	Auth    middleware.AuthConfig
	Swagger bool
}

// RegisterRoutes 注册 /api/v1 控制接口
func RegisterRoutes(r *gin.Engine, h *Handler, opts RouteOptions, logger *zap.Logger) {
	if r == nil || h == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.CORS())
	if opts.Auth.Enabled {
		v1.Use(middleware.APIKeyAuth(opts.Auth, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(opts.Auth.APIKeys)))
	} else {
		logger.Warn("api authentication disabled")
	}

	images := v1.Group("/images")
	images.POST("/latest", h.LatestImage)
	images.GET("/list", h.ListImages)
	images.POST("/list", h.ListImages)
	images.POST("/by-name", h.ImageByName)

	camera := v1.Group("/camera")
	camera.GET("/settings", h.GetSettings)
	camera.PUT("/settings", h.SetSettings)
	camera.POST("/flip", h.Flip)

	link := v1.Group("/link")
	link.POST("/time-sync", h.TimeSync)
	link.POST("/ping", h.Ping)
	link.POST("/runtime-data", h.RuntimeData)
	link.POST("/command", h.Command)
	link.POST("/listen", h.Listen)

	v1.GET("/jobs", h.ListJobs)
	v1.GET("/jobs/:id", h.GetJob)
	v1.DELETE("/jobs/:id", h.CancelJob)
	v1.GET("/events", h.Events)
	v1.GET("/ports", h.Ports)

	if h.transfers != nil {
		v1.GET("/transfers", h.Transfers)
	}
	if h.listenLog != nil {
		v1.GET("/listen/lines", h.ListenLines)
	}
	logger.Info("control routes registered")
}
