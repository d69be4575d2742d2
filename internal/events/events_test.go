package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/rfd-station/internal/metrics"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

func TestRing(t *testing.T) {
	r := NewRing(3, false)
	r.Notify(rfd.Event{Kind: rfd.EventSent, Data: []byte("1")})
	for i, text := range []string{"a", "b", "c", "d"} {
		job := "j1"
		if i%2 == 1 {
			job = "j2"
		}
		r.Notify(rfd.Event{Kind: rfd.EventStatus, Text: text, JobID: job})
	}

	all := r.Recent(0, "")
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].Text)
	assert.Equal(t, "d", all[2].Text)

	last := r.Recent(1, "")
	require.Len(t, last, 1)
	assert.Equal(t, "d", last[0].Text)

	j1 := r.Recent(0, "j1")
	require.Len(t, j1, 1)
	assert.Equal(t, "c", j1[0].Text)
}

func TestPrometheusSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewLinkMetrics(reg)
	s := NewPrometheusSink(m)

	s.Notify(rfd.Event{Kind: rfd.EventChunk, Result: "ok", Done: 1000, WordLength: 7000})
	s.Notify(rfd.Event{Kind: rfd.EventChunk, Result: "mismatch", WordLength: 7000})
	s.Notify(rfd.Event{Kind: rfd.EventChunk, Result: "forced", Done: 500, WordLength: 6000})
	s.Notify(rfd.Event{Kind: rfd.EventResync})
	s.Notify(rfd.Event{Kind: rfd.EventTransfer, Result: "partial"})
	s.Notify(rfd.Event{Kind: rfd.EventHandshake, Opcode: "ping_test", Result: "ack"})
	s.Notify(rfd.Event{Kind: rfd.EventPingSample, Seconds: 0.3})
	s.Notify(rfd.Event{Kind: rfd.EventGPS})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChunksTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChunksTotal.WithLabelValues("mismatch")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.BytesReceived))
	assert.Equal(t, 6000.0, testutil.ToFloat64(m.WordLength))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResyncTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransfersTotal.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HandshakesTotal.WithLabelValues("ping_test", "ack")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PingRTT))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListenLinesTotal.WithLabelValues("gps")))
}

type memStream struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (m *memStream) Append(ctx context.Context, payload []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.payloads = append(m.payloads, payload)
	return nil
}

func (m *memStream) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

// stalledStream 模拟卡死的 Redis：一直阻塞到 ctx 结束
type stalledStream struct{}

func (stalledStream) Append(ctx context.Context, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRedisSink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &memStream{}
	s := NewRedisSink(st, time.Second, 8, nil, nil)
	s.StartWorker(ctx)
	s.Notify(rfd.Event{Kind: rfd.EventReceived, Data: []byte("x")})
	s.Notify(rfd.Event{Kind: rfd.EventStatus, Text: "System Match", JobID: "j"})

	require.Eventually(t, func() bool { return st.count() == 1 }, time.Second, 5*time.Millisecond)
	st.mu.Lock()
	var ev rfd.Event
	require.NoError(t, json.Unmarshal(st.payloads[0], &ev))
	st.mu.Unlock()
	assert.Equal(t, "System Match", ev.Text)
	assert.Equal(t, "j", ev.JobID)

	// 写入失败只丢弃
	st.mu.Lock()
	st.err = errors.New("down")
	st.mu.Unlock()
	assert.NotPanics(t, func() { s.Notify(rfd.Event{Kind: rfd.EventStatus}) })
}

func TestRedisSinkNeverBlocksCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewLinkMetrics(prometheus.NewRegistry())
	s := NewRedisSink(stalledStream{}, time.Hour, 4, m, nil)
	s.StartWorker(ctx)
	f := NewFanout(nil, s)

	start := time.Now()
	for i := 0; i < 20; i++ {
		f.Notify(rfd.Event{Kind: rfd.EventProgress, Done: i * 1000, Total: 20000})
	}
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 50*time.Millisecond, "notify waited on redis for %s", elapsed)

	// 一条正在写入，队列 4 条，其余丢弃
	dropped := testutil.ToFloat64(m.EventsDropped.WithLabelValues("redis"))
	assert.GreaterOrEqual(t, dropped, 15.0)
	assert.LessOrEqual(t, s.Pending(), 4)
}

func TestRedisSinkStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := &memStream{}
	s := NewRedisSink(st, time.Second, 4, nil, nil)
	cancel()
	s.StartWorker(ctx)
	s.Notify(rfd.Event{Kind: rfd.EventStatus, Text: "late"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, st.count())
}

func TestFanout(t *testing.T) {
	var got []string
	f := NewFanout(nil,
		rfd.ObserverFunc(func(ev rfd.Event) { panic("boom") }),
		nil,
		rfd.ObserverFunc(func(ev rfd.Event) { got = append(got, ev.Text) }),
	)
	f.Add(NewZapSink(nil))
	f.Notify(rfd.Event{Kind: rfd.EventStatus, Text: "hello"})
	assert.Equal(t, []string{"hello"}, got)
}
