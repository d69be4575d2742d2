package health

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"slices"
	"time"
)

// SerialChecker 检查配置的串口设备是否存在
type SerialChecker struct {
	device string
	// list 枚举系统串口（transport.ListPorts）
	list func() ([]string, error)
}

// NewSerialChecker 创建串口检查器
func NewSerialChecker(device string, list func() ([]string, error)) *SerialChecker {
	return &SerialChecker{device: device, list: list}
}

// Name 返回检查器名称
func (c *SerialChecker) Name() string { return "serial" }

// Check 不打开串口，避免与正在执行的任务争用
func (c *SerialChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	details := map[string]any{"device": c.device}

	var ports []string
	if c.list != nil {
		if p, err := c.list(); err == nil {
			ports = p
			details["ports"] = p
		}
	}
	if slices.Contains(ports, c.device) {
		return CheckResult{Status: StatusHealthy, Message: "ok", Details: details, Latency: time.Since(start)}
	}
	// Windows 的 COM 口不在文件系统中
	if runtime.GOOS != "windows" {
		if _, err := os.Stat(c.device); err == nil {
			return CheckResult{Status: StatusHealthy, Message: "ok", Details: details, Latency: time.Since(start)}
		}
	}
	return CheckResult{
		Status:  StatusUnhealthy,
		Message: fmt.Sprintf("serial device %s not found", c.device),
		Details: details,
		Latency: time.Since(start),
	}
}
