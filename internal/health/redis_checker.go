package health

import (
	"context"
	"fmt"
	"time"

	redisstorage "github.com/taoyao-code/rfd-station/internal/storage/redis"
)

// RedisChecker Redis 健康检查器
type RedisChecker struct {
	client *redisstorage.Client
}

// NewRedisChecker 创建 Redis 健康检查器
func NewRedisChecker(client *redisstorage.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Name 返回检查器名称
func (c *RedisChecker) Name() string { return "redis" }

// Check 事件广播丢失不影响链路操作，失败只降级
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if err := c.client.HealthCheck(ctx); err != nil {
		return CheckResult{
			Status:  StatusDegraded,
			Message: fmt.Sprintf("ping failed: %v", err),
			Latency: time.Since(start),
		}
	}
	stats := c.client.Stats()
	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: map[string]any{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"timeouts":    stats.Timeouts,
		},
		Latency: time.Since(start),
	}
}
