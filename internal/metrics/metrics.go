package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// LinkMetrics RFD 链路指标
type LinkMetrics struct {
	ChunksTotal      *prometheus.CounterVec   // labels: result=ok|mismatch|forced
	ResyncTotal      prometheus.Counter       // 重同步次数
	BytesReceived    prometheus.Counter       // 已接受的 base64 负载字节
	TransfersTotal   *prometheus.CounterVec   // labels: outcome=complete|partial|failed
	HandshakesTotal  *prometheus.CounterVec   // labels: opcode, result=ack|timeout|interrupted
	PingRTT          prometheus.Histogram     // 单次 ping 往返时间（秒）
	JobsTotal        *prometheus.CounterVec   // labels: kind, state
	QueueDepth       prometheus.Gauge         // 工作队列中等待的任务数
	ListenLinesTotal *prometheus.CounterVec   // labels: kind=line|gps
	WordLength       prometheus.Gauge         // 当前会话块长度
	JobDuration      *prometheus.HistogramVec // labels: kind
	EventsDropped    *prometheus.CounterVec   // labels: sink
}

// NewLinkMetrics 注册并返回链路指标
func NewLinkMetrics(reg prometheus.Registerer) *LinkMetrics {
	m := &LinkMetrics{
		ChunksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfd_chunks_total",
			Help: "Received image chunks by checksum result.",
		}, []string{"result"}),
		ResyncTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rfd_resync_total",
			Help: "Resync procedures performed after a checksum mismatch.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rfd_payload_bytes_total",
			Help: "Accepted base64 payload bytes.",
		}),
		TransfersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfd_transfers_total",
			Help: "Image transfers by outcome.",
		}, []string{"outcome"}),
		HandshakesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfd_handshakes_total",
			Help: "Opcode handshakes by opcode and result.",
		}, []string{"opcode", "result"}),
		PingRTT: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rfd_ping_rtt_seconds",
			Help:    "Round-trip time of individual ping samples.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		JobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfd_jobs_total",
			Help: "Finished worker jobs by kind and terminal state.",
		}, []string{"kind", "state"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rfd_worker_queue_depth",
			Help: "Jobs waiting in the worker queue.",
		}),
		ListenLinesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfd_listen_lines_total",
			Help: "Lines received in listen mode.",
		}, []string{"kind"}),
		WordLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rfd_word_length",
			Help: "Chunk length in effect for the current transfer session.",
		}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rfd_job_duration_seconds",
			Help:    "Wall-clock duration of worker jobs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"kind"}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfd_events_dropped_total",
			Help: "Link events dropped by an asynchronous sink.",
		}, []string{"sink"}),
	}
	reg.MustRegister(
		m.ChunksTotal, m.ResyncTotal, m.BytesReceived, m.TransfersTotal, m.HandshakesTotal,
		m.PingRTT, m.JobsTotal, m.QueueDepth, m.ListenLinesTotal, m.WordLength, m.JobDuration,
		m.EventsDropped,
	)
	return m
}
