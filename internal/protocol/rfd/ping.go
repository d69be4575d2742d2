package rfd

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// PingResult ping 测试结果
type PingResult struct {
	Samples []float64 `json:"samples"`
	// Average 平均往返秒数，截断到两位小数
	Average float64 `json:"average"`
}

// Ping 测量链路往返时间。握手后采样 samples-1 次，每次最长 10 秒。
// 任一采样超时立即写出 'D' 并返回 ErrConnection。
func (e *Engine) Ping(ctx context.Context, samples int) (PingResult, error) {
	var res PingResult
	if err := e.SendUntilAcknowledged(ctx, OpPingTest); err != nil {
		return res, err
	}

	marker := e.profile.pingMarker()
	var total float64
	for i := 1; i < samples; i++ {
		start := e.clock.Now()
		if err := e.exchange(ctx, []byte{marker}, AckByte(marker), PingSampleTimeout, false); err != nil {
			if errors.Is(err, ErrConnection) {
				e.n.status("Connection Error, No return ping within 10 seconds")
			}
			if werr := e.Write([]byte{PingDone}); werr != nil {
				return res, werr
			}
			return res, fmt.Errorf("ping sample %d: %w", i, err)
		}
		rtt := e.clock.Now().Sub(start).Seconds()
		total += rtt
		res.Samples = append(res.Samples, rtt)
		e.n.emit(Event{Kind: EventPingSample, Seconds: rtt})
	}
	if err := e.Write([]byte{PingDone}); err != nil {
		return res, err
	}

	if len(res.Samples) > 0 {
		res.Average = truncate2(total / float64(len(res.Samples)))
	}
	e.Status("Ping Response Time = %.2f seconds", res.Average)
	return res, nil
}

func truncate2(v float64) float64 {
	return math.Trunc(v*100) / 100
}
