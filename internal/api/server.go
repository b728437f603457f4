// Package api exposes the simulator over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"grid-sim-go/internal/models"
	"grid-sim-go/internal/persistence"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server HTTP服务器
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
}

// NewServer 创建服务器; repo 为 nil 时预设只读且只有内置场景
func NewServer(base *models.Config, repo persistence.PresetRepository, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware(logger))

	s := &Server{
		engine: engine,
		logger: logger,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: engine,
		},
	}
	setupRoutes(engine, NewHandler(base, repo, logger))
	return s
}

func setupRoutes(engine *gin.Engine, handler *Handler) {
	api := engine.Group("/api")
	{
		api.POST("/simulate", handler.Simulate)
		api.GET("/presets", handler.ListPresets)
		api.PUT("/presets/:name", handler.SavePreset)
		api.DELETE("/presets/:name", handler.DeletePreset)
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start 启动服务器, 阻塞直到服务关闭
func (s *Server) Start() error {
	s.logger.Sugar().Infof("API 服务启动在 http://localhost%s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// loggerMiddleware 日志中间件
func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("api request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
