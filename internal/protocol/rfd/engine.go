// Package rfd 实现 RFD 900 电台链路上的图像传输协议：
// 命令握手、带校验的分块接收、重同步以及 ping 测试。
//
// 引擎是严格顺序的状态机，不创建协程；中断通过 context 在命令与块之间检查，
// 正在进行的单次读写总会完成或超时。
package rfd

import (
	"context"
	"fmt"
	"time"

	"github.com/taoyao-code/rfd-station/internal/transport"
)

// 默认协议参数
const (
	DefaultWordLength = 7000
	MinWordLength     = 1000
	WordLengthStep    = 1000
	DefaultMaxRetries = 5
	PingSampleTimeout = 10 * time.Second
)

// Clock 时间源，测试中可替换
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options 引擎参数
type Options struct {
	WordLength int
	MaxRetries int
	Profile    Profile
	Clock      Clock
}

// Engine 在单条链路上执行协议操作
type Engine struct {
	t       transport.Transport
	n       *notifier
	clock   Clock
	profile Profile
	word    int
	retries int
}

// NewEngine 构造引擎。零值参数使用默认值。
func NewEngine(t transport.Transport, obs Observer, opts Options) *Engine {
	if opts.WordLength <= 0 {
		opts.WordLength = DefaultWordLength
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Profile.PingMarker == "" || opts.Profile.TimeSyncOpcode == "" {
		opts.Profile = DefaultProfile()
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	return &Engine{
		t:       t,
		n:       newNotifier(obs, opts.Clock),
		clock:   opts.Clock,
		profile: opts.Profile,
		word:    opts.WordLength,
		retries: opts.MaxRetries,
	}
}

// Transport 返回底层链路，供不在引擎内的简单交换使用
func (e *Engine) Transport() transport.Transport { return e.t }

// Status 发送状态文本
func (e *Engine) Status(format string, args ...any) {
	e.n.status(fmt.Sprintf(format, args...))
}

// Emit 发送任意事件
func (e *Engine) Emit(ev Event) { e.n.emit(ev) }

// Now 引擎时间源
func (e *Engine) Now() time.Time { return e.clock.Now() }

// Write 写出并镜像到观察者
func (e *Engine) Write(p []byte) error {
	e.n.sent(p)
	if err := e.t.Write(p); err != nil {
		return err
	}
	return nil
}

// ReadN 读取至多 n 字节并镜像到观察者
func (e *Engine) ReadN(n int) ([]byte, error) {
	b, err := e.t.Read(n)
	e.n.received(b)
	return b, err
}

// ReadLine 读取一行并镜像到观察者
func (e *Engine) ReadLine() ([]byte, error) {
	line, err := e.t.ReadLine()
	e.n.received(line)
	return line, err
}

// ReadUntil 逐字节读取，直到遇到 stop（不包含）或一次空读。
// limit > 0 时超过期限返回已读数据与 ErrTransportTimeout。
func (e *Engine) ReadUntil(ctx context.Context, stop byte, limit time.Duration) ([]byte, error) {
	var deadline time.Time
	if limit > 0 {
		deadline = e.clock.Now().Add(limit)
	}
	var out []byte
	for {
		if err := ctx.Err(); err != nil {
			return out, ErrInterrupted
		}
		b, err := e.t.Read(1)
		if err != nil {
			return out, err
		}
		if len(b) == 0 || b[0] == stop {
			return out, nil
		}
		out = append(out, b[0])
		if !deadline.IsZero() && e.clock.Now().After(deadline) {
			return out, ErrTransportTimeout
		}
	}
}
