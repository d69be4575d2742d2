// Package events 将链路观察者事件分发到日志、指标、Redis 与内存环形缓冲。
package events

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// Fanout 按顺序同步转发给每个下游；单个下游 panic 不影响其他下游
type Fanout struct {
	sinks  []rfd.Observer
	logger *zap.Logger
}

// NewFanout 创建分发器，nil 下游会被忽略
func NewFanout(logger *zap.Logger, sinks ...rfd.Observer) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fanout{logger: logger}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Add 追加下游（启动阶段调用）
func (f *Fanout) Add(s rfd.Observer) {
	if s != nil {
		f.sinks = append(f.sinks, s)
	}
}

// Notify 实现 rfd.Observer
func (f *Fanout) Notify(ev rfd.Event) {
	for _, s := range f.sinks {
		f.deliver(s, ev)
	}
}

func (f *Fanout) deliver(s rfd.Observer, ev rfd.Event) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("event sink panic", zap.String("kind", string(ev.Kind)), zap.Any("panic", r))
		}
	}()
	s.Notify(ev)
}
