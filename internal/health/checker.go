package health

import (
	"context"
	"time"
)

// Status 健康状态
type Status string

const (
	StatusHealthy   Status = "healthy"   // 健康
	StatusDegraded  Status = "degraded"  // 降级（仍可接受任务）
	StatusUnhealthy Status = "unhealthy" // 不健康（无法执行链路操作）
)

// CheckResult 健康检查结果
type CheckResult struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Latency time.Duration  `json:"latency"`
}

// Checker 健康检查器接口
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// CheckerFunc 函数适配器
type CheckerFunc struct {
	CheckName string
	Fn        func(ctx context.Context) CheckResult
}

// Name 实现 Checker
func (c CheckerFunc) Name() string { return c.CheckName }

// Check 实现 Checker
func (c CheckerFunc) Check(ctx context.Context) CheckResult { return c.Fn(ctx) }
