package health

import (
	"context"
	"time"

	"github.com/taoyao-code/rfd-station/internal/station"
)

// WorkerStatusSource 工作协程状态来源
type WorkerStatusSource interface {
	Status() station.WorkerStatus
}

// WorkerChecker 工作协程健康检查器
type WorkerChecker struct {
	w WorkerStatusSource
}

// NewWorkerChecker 创建工作协程检查器
func NewWorkerChecker(w WorkerStatusSource) *WorkerChecker {
	return &WorkerChecker{w: w}
}

// Name 返回检查器名称
func (c *WorkerChecker) Name() string { return "worker" }

// Check 队列关闭为不健康；上一个任务失败为降级
func (c *WorkerChecker) Check(context.Context) CheckResult {
	start := time.Now()
	st := c.w.Status()
	details := map[string]any{"queued": st.Queued}
	if st.Running != nil {
		details["running"] = st.Running.ID
		details["running_kind"] = st.Running.Request.Kind
	}
	res := CheckResult{Status: StatusHealthy, Message: "ok", Details: details}
	switch {
	case st.Closed:
		res.Status, res.Message = StatusUnhealthy, "worker stopped"
	case st.LastError != "":
		res.Status, res.Message = StatusDegraded, st.LastError
	}
	res.Latency = time.Since(start)
	return res
}
