package rfd

import (
	"context"
	"strings"
)

// TimeSyncResult 对时结果：遥测端时钟文本、本地时钟与链路延迟
type TimeSyncResult struct {
	RemoteTime string     `json:"remoteTime"`
	LocalTime  string     `json:"localTime"`
	Ping       PingResult `json:"ping"`
}

// TimeSync 握手（20 秒期限）后读取遥测端时间行，然后进行 samples 次 ping 测试
func (e *Engine) TimeSync(ctx context.Context, samples int) (TimeSyncResult, error) {
	var res TimeSyncResult
	if err := e.SendUntilAcknowledged(ctx, OpTimeSync); err != nil {
		return res, err
	}
	res.LocalTime = e.clock.Now().Format("01/02/2006 15:04:05")
	line, err := e.ReadLine()
	if err != nil {
		return res, err
	}
	res.RemoteTime = strings.TrimSpace(string(line))
	e.Status("Raspb Time = %s", res.RemoteTime)
	e.Status("Local Time = %s", res.LocalTime)

	res.Ping, err = e.Ping(ctx, samples)
	return res, err
}
