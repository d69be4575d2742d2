package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/metrics"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// DefaultRedisQueueSize Redis 下游的待发送事件上限
const DefaultRedisQueueSize = 1024

// Streamer 事件流写入端（由 storage/redis.EventStream 实现）
type Streamer interface {
	Append(ctx context.Context, payload []byte) error
}

// RedisSink 以 JSON 形式发布事件。
// Notify 只做非阻塞入队，队列满即丢弃；由 StartWorker 启动的协程负责写入 Redis。
type RedisSink struct {
	stream  Streamer
	timeout time.Duration
	queue   chan rfd.Event
	metrics *metrics.LinkMetrics
	logger  *zap.Logger
}

// NewRedisSink 创建 Redis 下游。queueSize <= 0 时使用 DefaultRedisQueueSize。
func NewRedisSink(stream Streamer, timeout time.Duration, queueSize int, m *metrics.LinkMetrics, logger *zap.Logger) *RedisSink {
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}
	if queueSize <= 0 {
		queueSize = DefaultRedisQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSink{
		stream:  stream,
		timeout: timeout,
		queue:   make(chan rfd.Event, queueSize),
		metrics: m,
		logger:  logger,
	}
}

// Notify 实现 rfd.Observer；不转发原始收发字节，从不阻塞调用方
func (s *RedisSink) Notify(ev rfd.Event) {
	if ev.Kind == rfd.EventSent || ev.Kind == rfd.EventReceived {
		return
	}
	select {
	case s.queue <- ev:
	default:
		if s.metrics != nil {
			s.metrics.EventsDropped.WithLabelValues("redis").Inc()
		}
	}
}

// Pending 队列中尚未写出的事件数
func (s *RedisSink) Pending() int { return len(s.queue) }

// StartWorker 启动写入协程，ctx 取消后退出
func (s *RedisSink) StartWorker(ctx context.Context) {
	go s.worker(ctx)
}

func (s *RedisSink) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.queue:
			if ctx.Err() != nil {
				return
			}
			s.publish(ctx, ev)
		}
	}
}

func (s *RedisSink) publish(ctx context.Context, ev rfd.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warn("marshal event failed", zap.Error(err))
		return
	}
	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.stream.Append(pctx, payload); err != nil {
		if s.metrics != nil {
			s.metrics.EventsDropped.WithLabelValues("redis").Inc()
		}
		s.logger.Debug("event dropped", zap.String("kind", string(ev.Kind)), zap.Error(err))
	}
}
