package events

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// ZapSink 把事件写入结构化日志。收发字节与进度为 Debug，其余为 Info。
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink 创建日志下游
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.With(zap.String("component", "link"))}
}

// Notify 实现 rfd.Observer
func (s *ZapSink) Notify(ev rfd.Event) {
	fields := []zap.Field{zap.String("kind", string(ev.Kind))}
	if ev.JobID != "" {
		fields = append(fields, zap.String("job_id", ev.JobID))
	}
	switch ev.Kind {
	case rfd.EventSent, rfd.EventReceived:
		s.logger.Debug("link bytes", append(fields, zap.Int("len", len(ev.Data)), zap.ByteString("data", ev.Data))...)
	case rfd.EventProgress:
		s.logger.Debug("transfer progress", append(fields, zap.Int("done", ev.Done), zap.Int("total", ev.Total))...)
	case rfd.EventStatus:
		s.logger.Info(ev.Text, fields...)
	case rfd.EventHandshake:
		s.logger.Info("handshake", append(fields, zap.String("opcode", ev.Opcode), zap.String("result", ev.Result))...)
	case rfd.EventChunk:
		s.logger.Debug("chunk", append(fields, zap.String("result", ev.Result), zap.Int("len", ev.Done), zap.Int("word_length", ev.WordLength))...)
	case rfd.EventResync:
		s.logger.Warn("link resynchronised", fields...)
	case rfd.EventPingSample:
		s.logger.Info("ping sample", append(fields, zap.Float64("seconds", ev.Seconds))...)
	case rfd.EventTransfer:
		s.logger.Info("transfer finished", append(fields,
			zap.String("result", ev.Result), zap.Int("bytes", ev.Done), zap.Int("total", ev.Total))...)
	case rfd.EventJob:
		s.logger.Info("job state", append(fields, zap.String("job_kind", ev.Opcode), zap.String("state", ev.Result), zap.String("message", ev.Text))...)
	default:
		s.logger.Info("link event", append(fields, zap.String("text", ev.Text))...)
	}
}
