// Package api 地面站 HTTP 控制接口：提交链路任务、查询与取消任务、查看事件与记录。
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
	"github.com/taoyao-code/rfd-station/internal/station"
	"github.com/taoyao-code/rfd-station/internal/storage/models"
	pgstorage "github.com/taoyao-code/rfd-station/internal/storage/pg"
)

// Jobs 工作队列
type Jobs interface {
	Submit(req station.Request) (station.JobInfo, error)
	Cancel(id string) (station.JobInfo, error)
	Get(id string) (station.JobInfo, bool)
	List() []station.JobInfo
}

// EventSource 最近的链路事件
type EventSource interface {
	Recent(n int, jobID string) []rfd.Event
}

// TransferLister 传输记录查询（数据库启用时）
type TransferLister interface {
	ListTransfers(ctx context.Context, limit int) ([]models.ImageTransfer, error)
}

// ListenLineLister 监听日志查询（数据库启用时）
type ListenLineLister interface {
	RecentLines(ctx context.Context, jobID string, limit int) ([]pgstorage.ListenLine, error)
}

// Handler 控制接口处理器
type Handler struct {
	jobs      Jobs
	events    EventSource
	transfers TransferLister
	listenLog ListenLineLister
	ports     func() ([]string, error)
	logger    *zap.Logger
}

// Deps 可选依赖
type Deps struct {
	Events    EventSource
	Transfers TransferLister
	ListenLog ListenLineLister
	Ports     func() ([]string, error)
}

// NewHandler 创建处理器
func NewHandler(jobs Jobs, deps Deps, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		jobs:      jobs,
		events:    deps.Events,
		transfers: deps.Transfers,
		listenLog: deps.ListenLog,
		ports:     deps.Ports,
		logger:    logger.With(zap.String("component", "api")),
	}
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type latestImageBody struct {
	Name string `json:"name"`
}

type byNameBody struct {
	Name    string `json:"name" binding:"required"`
	Confirm bool   `json:"confirm"`
}

type flipBody struct {
	Axis string `json:"axis" binding:"required,oneof=horizontal vertical"`
}

type pingBody struct {
	Samples int `json:"samples"`
}

type commandBody struct {
	Identifier string `json:"identifier" binding:"required"`
	Command    string `json:"command" binding:"required"`
}

// LatestImage 获取最新图像
// @Summary 获取最新图像
// @Description 排队一个 latest_image 任务；name 为空时沿用发送端文件名
// @Tags 图像
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body latestImageBody false "保存名"
// @Success 202 {object} station.JobInfo
// @Failure 429 {object} ErrorResponse "队列已满"
// @Router /api/v1/images/latest [post]
func (h *Handler) LatestImage(c *gin.Context) {
	var body latestImageBody
	if !bindOptional(c, &body) {
		return
	}
	h.submit(c, station.Request{Kind: station.KindLatestImage, Name: body.Name})
}

// ListImages 获取遥测端图像列表
// @Summary 获取图像列表
// @Tags 图像
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} station.JobInfo
// @Router /api/v1/images/list [get]
// @Router /api/v1/images/list [post]
func (h *Handler) ListImages(c *gin.Context) {
	h.submit(c, station.Request{Kind: station.KindListImages})
}

// ImageByName 按名获取图像
// @Summary 按名获取图像
// @Description 高分辨率原图（第 11 个字符不是 b）需要 confirm=true
// @Tags 图像
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body byNameBody true "图像名"
// @Success 202 {object} station.JobInfo
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/images/by-name [post]
func (h *Handler) ImageByName(c *gin.Context) {
	var body byNameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	h.submit(c, station.Request{Kind: station.KindImageByName, Name: body.Name, Confirm: body.Confirm})
}

// GetSettings 读取相机参数
// @Summary 读取相机参数
// @Tags 相机
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} station.JobInfo
// @Router /api/v1/camera/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	h.submit(c, station.Request{Kind: station.KindGetSettings})
}

// SetSettings 下发相机参数
// @Summary 下发相机参数
// @Tags 相机
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body rfd.CameraSettings true "相机参数"
// @Success 202 {object} station.JobInfo
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/camera/settings [put]
func (h *Handler) SetSettings(c *gin.Context) {
	settings := rfd.DefaultCameraSettings()
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, err)
		return
	}
	h.submit(c, station.Request{Kind: station.KindSetSettings, Settings: &settings})
}

// Flip 翻转相机画面
// @Summary 翻转相机画面
// @Tags 相机
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body flipBody true "horizontal | vertical"
// @Success 202 {object} station.JobInfo
// @Router /api/v1/camera/flip [post]
func (h *Handler) Flip(c *gin.Context) {
	var body flipBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	kind := station.KindFlipHorizontal
	if body.Axis == "vertical" {
		kind = station.KindFlipVertical
	}
	h.submit(c, station.Request{Kind: kind})
}

// TimeSync 对时
// @Summary 对时并测量往返时间
// @Tags 链路
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} station.JobInfo
// @Router /api/v1/link/time-sync [post]
func (h *Handler) TimeSync(c *gin.Context) {
	h.submit(c, station.Request{Kind: station.KindTimeSync})
}

// Ping 链路往返测试
// @Summary 链路往返测试
// @Tags 链路
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body pingBody false "采样数，默认 10"
// @Success 202 {object} station.JobInfo
// @Router /api/v1/link/ping [post]
func (h *Handler) Ping(c *gin.Context) {
	var body pingBody
	if !bindOptional(c, &body) {
		return
	}
	h.submit(c, station.Request{Kind: station.KindPing, Samples: body.Samples})
}

// RuntimeData 获取遥测端运行数据
// @Summary 获取遥测端运行数据
// @Tags 链路
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} station.JobInfo
// @Router /api/v1/link/runtime-data [post]
func (h *Handler) RuntimeData(c *gin.Context) {
	h.submit(c, station.Request{Kind: station.KindRuntimeData})
}

// Command 发送 RFD 命令
// @Summary 发送 RFD 命令
// @Tags 链路
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body commandBody true "identifier?command!"
// @Success 202 {object} station.JobInfo
// @Router /api/v1/link/command [post]
func (h *Handler) Command(c *gin.Context) {
	var body commandBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	h.submit(c, station.Request{Kind: station.KindCommand, Identifier: body.Identifier, Command: body.Command})
}

// Listen 进入监听模式（取消任务后结束）
// @Summary 监听模式
// @Tags 链路
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} station.JobInfo
// @Router /api/v1/link/listen [post]
func (h *Handler) Listen(c *gin.Context) {
	h.submit(c, station.Request{Kind: station.KindListen})
}

// GetJob 查询任务
// @Summary 查询任务
// @Tags 任务
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Success 200 {object} station.JobInfo
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (h *Handler) GetJob(c *gin.Context) {
	info, ok := h.jobs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: station.ErrJobNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// CancelJob 取消任务
// @Summary 取消任务
// @Description 排队中的任务直接取消；运行中的任务在下一个检查点停止
// @Tags 任务
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Success 202 {object} station.JobInfo
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/jobs/{id} [delete]
func (h *Handler) CancelJob(c *gin.Context) {
	info, err := h.jobs.Cancel(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("job cancel requested", zap.String("job_id", info.ID))
	c.JSON(http.StatusAccepted, info)
}

// ListJobs 最近任务
// @Summary 最近任务
// @Tags 任务
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/jobs [get]
func (h *Handler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.jobs.List()})
}

// Events 最近的链路事件
// @Summary 最近的链路事件
// @Tags 任务
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数(默认100)"
// @Param job query string false "任务ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/events [get]
func (h *Handler) Events(c *gin.Context) {
	if h.events == nil {
		c.JSON(http.StatusOK, gin.H{"events": []rfd.Event{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": h.events.Recent(queryInt(c, "limit", 100), c.Query("job"))})
}

// Ports 枚举串口
// @Summary 枚举串口
// @Tags 链路
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ports [get]
func (h *Handler) Ports(c *gin.Context) {
	if h.ports == nil {
		c.JSON(http.StatusOK, gin.H{"ports": []string{}})
		return
	}
	ports, err := h.ports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "port_search_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ports": ports})
}

// Transfers 图像传输记录
// @Summary 图像传输记录
// @Tags 记录
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数(默认50)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse "未启用数据库"
// @Router /api/v1/transfers [get]
func (h *Handler) Transfers(c *gin.Context) {
	list, err := h.transfers.ListTransfers(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": list})
}

// ListenLines 监听日志
// @Summary 监听日志
// @Tags 记录
// @Produce json
// @Security ApiKeyAuth
// @Param job query string false "任务ID"
// @Param limit query int false "条数(默认100)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/listen/lines [get]
func (h *Handler) ListenLines(c *gin.Context) {
	lines, err := h.listenLog.RecentLines(c.Request.Context(), c.Query("job"), queryInt(c, "limit", 100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *Handler) submit(c *gin.Context, req station.Request) {
	info, err := h.jobs.Submit(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, info)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, station.ErrInvalidRequest):
		badRequest(c, err)
	case errors.Is(err, station.ErrBusy):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "busy", Message: err.Error()})
	case errors.Is(err, station.ErrQueueClosed):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "unavailable", Message: err.Error()})
	case errors.Is(err, station.ErrJobNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
}

// bindOptional 允许空请求体
func bindOptional(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return def
}
