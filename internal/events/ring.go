package events

import (
	"sync"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// Ring 保存最近的事件供 HTTP 查询。收发字节事件默认不入环。
type Ring struct {
	mu        sync.Mutex
	buf       []rfd.Event
	next      int
	full      bool
	keepBytes bool
}

// NewRing 创建容量为 size 的环形缓冲
func NewRing(size int, keepBytes bool) *Ring {
	if size <= 0 {
		size = 256
	}
	return &Ring{buf: make([]rfd.Event, size), keepBytes: keepBytes}
}

// Notify 实现 rfd.Observer
func (r *Ring) Notify(ev rfd.Event) {
	if !r.keepBytes && (ev.Kind == rfd.EventSent || ev.Kind == rfd.EventReceived) {
		return
	}
	r.mu.Lock()
	r.buf[r.next] = ev
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

// Recent 返回最近 n 条（时间正序）；jobID 非空时只返回该任务的事件
func (r *Ring) Recent(n int, jobID string) []rfd.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []rfd.Event
	if r.full {
		all = append(all, r.buf[r.next:]...)
	}
	all = append(all, r.buf[:r.next]...)

	out := make([]rfd.Event, 0, len(all))
	for _, ev := range all {
		if jobID == "" || ev.JobID == jobID {
			out = append(out, ev)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
