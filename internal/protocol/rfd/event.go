package rfd

import (
	"time"

	"golang.org/x/time/rate"
)

// EventKind 观察者事件类型
type EventKind string

const (
	EventStatus     EventKind = "status"      // 操作员可见的状态文本
	EventProgress   EventKind = "progress"    // 传输进度 Done/Total
	EventSent       EventKind = "sent"        // 写出到电台的字节
	EventReceived   EventKind = "received"    // 从电台读到的字节/行
	EventHandshake  EventKind = "handshake"   // 握手结果 Result=ack|timeout|interrupted
	EventChunk      EventKind = "chunk"       // 块结果 Result=ok|mismatch|forced
	EventResync     EventKind = "resync"      // 完成一次重同步
	EventPingSample EventKind = "ping_sample" // 单次往返 Seconds
	EventTransfer   EventKind = "transfer"    // 传输结束 Result=complete|partial
	EventLine       EventKind = "line"        // 监听模式收到的行
	EventGPS        EventKind = "gps"         // 监听模式解析出的定位
	EventJob        EventKind = "job"         // 任务状态变更
)

// Event 链路事件。字段按 Kind 选择性填充。
type Event struct {
	Kind       EventKind `json:"kind"`
	Time       time.Time `json:"time"`
	JobID      string    `json:"jobId,omitempty"`
	Text       string    `json:"text,omitempty"`
	Data       []byte    `json:"data,omitempty"`
	Done       int       `json:"done,omitempty"`
	Total      int       `json:"total,omitempty"`
	Opcode     string    `json:"opcode,omitempty"`
	Result     string    `json:"result,omitempty"`
	Seconds    float64   `json:"seconds,omitempty"`
	WordLength int       `json:"wordLength,omitempty"`
}

// Observer 接收链路事件。在工作协程中同步调用，实现方不得阻塞。
type Observer interface {
	Notify(ev Event)
}

// ObserverFunc 函数适配器
type ObserverFunc func(ev Event)

// Notify 实现 Observer
func (f ObserverFunc) Notify(ev Event) { f(ev) }

// NopObserver 丢弃所有事件
type NopObserver struct{}

// Notify 实现 Observer
func (NopObserver) Notify(Event) {}

// WaitingText 握手等待提示
const WaitingText = "Waiting for Acknowledge"

// Throttle 限制重复提示的频率，与重试节奏无关
type Throttle struct {
	interval time.Duration
	lim      *rate.Limiter
}

// NewThrottle 每个 interval 至多放行一次
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Arm 从 now 起重新计时，首次放行在一个 interval 之后
func (t *Throttle) Arm(now time.Time) {
	t.lim = rate.NewLimiter(rate.Every(t.interval), 1)
	t.lim.AllowN(now, 1)
}

// AllowAt 判断 now 时刻是否放行
func (t *Throttle) AllowAt(now time.Time) bool {
	return t.lim.AllowN(now, 1)
}

// notifier 为引擎提供带时间戳的事件发送与节流
type notifier struct {
	obs      Observer
	clock    Clock
	throttle *Throttle
}

func newNotifier(obs Observer, clock Clock) *notifier {
	if obs == nil {
		obs = NopObserver{}
	}
	return &notifier{obs: obs, clock: clock, throttle: NewThrottle(time.Second)}
}

func (n *notifier) emit(ev Event) {
	ev.Time = n.clock.Now()
	n.obs.Notify(ev)
}

func (n *notifier) status(text string) {
	n.emit(Event{Kind: EventStatus, Text: text})
}

// armWaiting 每次开始等待应答时调用
func (n *notifier) armWaiting() {
	n.throttle.Arm(n.clock.Now())
}

func (n *notifier) waiting() {
	if n.throttle.AllowAt(n.clock.Now()) {
		n.status(WaitingText)
	}
}

func (n *notifier) progress(done, total int) {
	n.emit(Event{Kind: EventProgress, Done: done, Total: total})
}

func (n *notifier) sent(p []byte) {
	n.emit(Event{Kind: EventSent, Data: append([]byte(nil), p...)})
}

func (n *notifier) received(p []byte) {
	if len(p) == 0 {
		return
	}
	n.emit(Event{Kind: EventReceived, Data: append([]byte(nil), p...)})
}
