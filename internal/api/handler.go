package api

import (
	"errors"
	"io"
	"net/http"

	"grid-sim-go/internal/config"
	"grid-sim-go/internal/engine"
	"grid-sim-go/internal/models"
	"grid-sim-go/internal/persistence"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler API处理器
type Handler struct {
	base   models.Config
	repo   persistence.PresetRepository
	logger *zap.Logger
}

// NewHandler 创建处理器, base 是请求未给出字段时使用的配置
func NewHandler(base *models.Config, repo persistence.PresetRepository, logger *zap.Logger) *Handler {
	return &Handler{base: *base, repo: repo, logger: logger}
}

// simulateRequest 中的行情和网格配置会被预先填入默认值, 请求只需给出要修改的字段
type simulateRequest struct {
	Seed   int64               `json:"seed"`
	Market models.MarketConfig `json:"market"`
	Grid   models.GridConfig   `json:"grid"`
}

// Simulate 运行一次模拟; 可通过 ?preset= 先套用预设
func (h *Handler) Simulate(c *gin.Context) {
	cfg := h.base
	if name := c.Query("preset"); name != "" {
		p, err := config.ResolvePreset(name, h.repo, cfg.Market)
		if errors.Is(err, persistence.ErrPresetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		config.ApplyPreset(&cfg, p)
	}

	req := simulateRequest{Seed: cfg.Seed, Market: cfg.Market, Grid: cfg.Grid}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := engine.Run(req.Market, req.Grid, engine.WithSeed(req.Seed), engine.WithLogger(h.logger))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrInvalidMarketConfig) || errors.Is(err, models.ErrInvalidGridConfig) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": result,
	})
}

// ListPresets 返回内置和已保存的预设
func (h *Handler) ListPresets(c *gin.Context) {
	presets := config.BuiltinPresets(h.base.Market)
	if h.repo != nil {
		saved, err := h.repo.ListPresets()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		presets = append(presets, saved...)
	}
	c.JSON(http.StatusOK, gin.H{
		"code":  0,
		"data":  presets,
		"count": len(presets),
	})
}

// SavePreset 保存预设, 名称取自路径
func (h *Handler) SavePreset(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "preset storage is not configured"})
		return
	}

	preset := models.Preset{Market: h.base.Market}
	if err := c.ShouldBindJSON(&preset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	preset.Name = c.Param("name")
	if err := preset.Market.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if preset.Grid != nil {
		if err := preset.Grid.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.repo.SavePreset(&preset); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "name": preset.Name})
}

func (h *Handler) DeletePreset(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "preset storage is not configured"})
		return
	}

	err := h.repo.DeletePreset(c.Param("name"))
	if errors.Is(err, persistence.ErrPresetNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0})
}
