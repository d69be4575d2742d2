package events

import (
	"github.com/taoyao-code/rfd-station/internal/metrics"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// PrometheusSink 将事件折算为链路指标
type PrometheusSink struct {
	m *metrics.LinkMetrics
}

// NewPrometheusSink 创建指标下游
func NewPrometheusSink(m *metrics.LinkMetrics) *PrometheusSink {
	return &PrometheusSink{m: m}
}

// Notify 实现 rfd.Observer
func (s *PrometheusSink) Notify(ev rfd.Event) {
	if s.m == nil {
		return
	}
	switch ev.Kind {
	case rfd.EventChunk:
		s.m.ChunksTotal.WithLabelValues(ev.Result).Inc()
		if ev.Result != "mismatch" {
			s.m.BytesReceived.Add(float64(ev.Done))
		}
		s.m.WordLength.Set(float64(ev.WordLength))
	case rfd.EventResync:
		s.m.ResyncTotal.Inc()
	case rfd.EventTransfer:
		s.m.TransfersTotal.WithLabelValues(ev.Result).Inc()
	case rfd.EventHandshake:
		s.m.HandshakesTotal.WithLabelValues(ev.Opcode, ev.Result).Inc()
	case rfd.EventPingSample:
		s.m.PingRTT.Observe(ev.Seconds)
	case rfd.EventLine:
		s.m.ListenLinesTotal.WithLabelValues("line").Inc()
	case rfd.EventGPS:
		s.m.ListenLinesTotal.WithLabelValues("gps").Inc()
	}
}
