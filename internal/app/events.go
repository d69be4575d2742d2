package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/events"
	"github.com/taoyao-code/rfd-station/internal/metrics"
	redisstorage "github.com/taoyao-code/rfd-station/internal/storage/redis"
)

// RecentEvents 控制接口可回看的事件条数
const RecentEvents = 2000

// NewEventFanout 组装事件分发：日志、指标、内存环形缓冲，以及可选的 Redis 广播。
// Redis 写入协程随 ctx 结束。
func NewEventFanout(ctx context.Context, m *metrics.LinkMetrics, stream *redisstorage.EventStream, log *zap.Logger) (*events.Fanout, *events.Ring) {
	ring := events.NewRing(RecentEvents, false)
	fan := events.NewFanout(log,
		events.NewZapSink(log),
		events.NewPrometheusSink(m),
		ring,
	)
	if stream != nil {
		sink := events.NewRedisSink(stream, 0, events.DefaultRedisQueueSize, m, log)
		sink.StartWorker(ctx)
		fan.Add(sink)
		log.Info("link events are published to redis", zap.String("channel", stream.Channel()))
	}
	return fan, ring
}
