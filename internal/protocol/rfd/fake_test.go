package rfd

import (
	"bytes"
	"context"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) { c.Advance(d) }

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type segment struct {
	data  []byte
	delay time.Duration
}

// fakeLink 模拟半双工电台：发送端按段推送数据，段尾或无数据时视为一次空闲超时
type fakeLink struct {
	clock    *fakeClock
	idle     time.Duration
	segments []segment
	cur      []byte
	writes   bytes.Buffer
	onWrite  func(f *fakeLink, p []byte)
	inFlush  int
	outFlush int
}

func newFakeLink(clock *fakeClock) *fakeLink {
	return &fakeLink{clock: clock, idle: 2 * time.Second}
}

func (f *fakeLink) push(data string) {
	f.segments = append(f.segments, segment{data: []byte(data)})
}

func (f *fakeLink) pushDelayed(data string, d time.Duration) {
	f.segments = append(f.segments, segment{data: []byte(data), delay: d})
}

func (f *fakeLink) next() bool {
	if len(f.cur) > 0 {
		return true
	}
	if len(f.segments) == 0 {
		return false
	}
	s := f.segments[0]
	f.segments = f.segments[1:]
	f.clock.Advance(s.delay)
	f.cur = s.data
	return len(f.cur) > 0
}

func (f *fakeLink) Write(p []byte) error {
	f.writes.Write(p)
	if f.onWrite != nil {
		f.onWrite(f, p)
	}
	return nil
}

func (f *fakeLink) Read(n int) ([]byte, error) {
	if !f.next() {
		f.clock.Advance(f.idle)
		return nil, nil
	}
	k := n
	if k > len(f.cur) {
		k = len(f.cur)
	}
	out := append([]byte(nil), f.cur[:k]...)
	f.cur = f.cur[k:]
	if k < n {
		f.clock.Advance(f.idle)
	}
	return out, nil
}

func (f *fakeLink) ReadLine() ([]byte, error) {
	if !f.next() {
		f.clock.Advance(f.idle)
		return nil, nil
	}
	if i := bytes.IndexByte(f.cur, '\n'); i >= 0 {
		out := append([]byte(nil), f.cur[:i+1]...)
		f.cur = f.cur[i+1:]
		return out, nil
	}
	out := append([]byte(nil), f.cur...)
	f.cur = nil
	f.clock.Advance(f.idle)
	return out, nil
}

func (f *fakeLink) FlushInput() error  { f.inFlush++; f.cur = nil; return nil }
func (f *fakeLink) FlushOutput() error { f.outFlush++; return nil }

// recorder 收集事件
type recorder struct {
	events []Event
}

func (r *recorder) Notify(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kind(k EventKind) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) statusCount(text string) int {
	n := 0
	for _, ev := range r.kind(EventStatus) {
		if ev.Text == text {
			n++
		}
	}
	return n
}

func newTestEngine(opts Options) (*Engine, *fakeLink, *recorder, *fakeClock) {
	clock := newFakeClock()
	link := newFakeLink(clock)
	rec := &recorder{}
	opts.Clock = clock
	return NewEngine(link, rec, opts), link, rec, clock
}

// imageSender 模拟遥测端的分块发送逻辑
type imageSender struct {
	chunks  []string
	corrupt map[int]int // 块序号 -> 剩余损坏发送次数
	idx     int
}

func (s *imageSender) frame(i int) string {
	data := s.chunks[i]
	token := Digest([]byte(data))
	if s.corrupt[i] > 0 {
		s.corrupt[i]--
		token = Digest([]byte("corrupted" + data))
	}
	return token + data
}

// attach 安装写回调：'Y' 推进下一块，'N' 触发 sync 标记，'S' 重发当前块
func (s *imageSender) attach(f *fakeLink, size string) {
	f.push(size + "\n" + s.frame(0))
	f.onWrite = func(f *fakeLink, p []byte) {
		switch string(p) {
		case "Y":
			s.idx++
			if s.idx < len(s.chunks) {
				f.push(s.frame(s.idx))
			}
		case "N":
			f.push("\x00\xffgarbage" + SyncMarker)
		case "S":
			f.push(s.frame(s.idx))
		}
	}
}

func splitChunks(payload []byte, size int) []string {
	var out []string
	for len(payload) > 0 {
		k := size
		if k > len(payload) {
			k = len(payload)
		}
		out = append(out, string(payload[:k]))
		payload = payload[k:]
	}
	return out
}

func cancelAfter(n int, match byte, f *fakeLink) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	seen := 0
	prev := f.onWrite
	f.onWrite = func(f *fakeLink, p []byte) {
		if prev != nil {
			prev(f, p)
		}
		if len(p) == 1 && p[0] == match {
			seen++
			if seen == n {
				cancel()
			}
		}
	}
	return ctx
}
