package station

import (
	"bytes"
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
	"github.com/taoyao-code/rfd-station/internal/transport"
)

// scriptLink 响应式模拟电台：写入触发 respond，读取按段返回，段尾视为一次空闲超时
type scriptLink struct {
	mu       sync.Mutex
	segments [][]byte
	cur      []byte
	writes   bytes.Buffer
	respond  func(l *scriptLink, p []byte)
	closed   bool
	panicOn  bool
}

func (l *scriptLink) push(s string) { l.segments = append(l.segments, []byte(s)) }

func (l *scriptLink) next() bool {
	if len(l.cur) > 0 {
		return true
	}
	if len(l.segments) == 0 {
		return false
	}
	l.cur, l.segments = l.segments[0], l.segments[1:]
	return len(l.cur) > 0
}

func (l *scriptLink) Write(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writes.Write(p)
	if l.respond != nil {
		l.respond(l, p)
	}
	return nil
}

func (l *scriptLink) Read(n int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.panicOn {
		panic("driver exploded")
	}
	if !l.next() {
		return nil, nil
	}
	k := n
	if k > len(l.cur) {
		k = len(l.cur)
	}
	out := append([]byte(nil), l.cur[:k]...)
	l.cur = l.cur[k:]
	return out, nil
}

func (l *scriptLink) ReadLine() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.next() {
		return nil, nil
	}
	if i := bytes.IndexByte(l.cur, '\n'); i >= 0 {
		out := append([]byte(nil), l.cur[:i+1]...)
		l.cur = l.cur[i+1:]
		return out, nil
	}
	out := l.cur
	l.cur = nil
	return out, nil
}

func (l *scriptLink) FlushInput() error  { l.mu.Lock(); l.cur = nil; l.mu.Unlock(); return nil }
func (l *scriptLink) FlushOutput() error { return nil }
func (l *scriptLink) Close() error       { l.mu.Lock(); l.closed = true; l.mu.Unlock(); return nil }

func (l *scriptLink) written() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes.String()
}

func openerFor(l *scriptLink) transport.Opener {
	return transport.OpenerFunc(func() (transport.Link, error) { return l, nil })
}

// imagePi 模拟遥测端：应答 opcode，发送文件名（可选）、大小行与分块
func imagePi(opcode byte, senderName string, payload []byte) func(l *scriptLink, p []byte) {
	var chunks [][]byte
	for rest := payload; len(rest) > 0; {
		k := 1000
		if k > len(rest) {
			k = len(rest)
		}
		chunks = append(chunks, rest[:k])
		rest = rest[k:]
	}
	idx := 0
	frame := func(i int) string { return rfd.Digest(chunks[i]) + string(chunks[i]) }
	started := false
	return func(l *scriptLink, p []byte) {
		switch {
		case !started && len(p) == 1 && p[0] == opcode:
			started = true
			head := "A" + senderName
			if senderName == "" || opcode == '3' {
				head = "A"
			}
			l.push(head)
			if opcode != '3' {
				l.push(strconv.Itoa(len(payload)) + "\n" + frame(0))
			}
		case opcode == '3' && len(p) == rfd.NameLength:
			l.push(strconv.Itoa(len(payload)) + "\n" + frame(0))
		case string(p) == "Y":
			idx++
			if idx < len(chunks) {
				l.push(frame(idx))
			}
		}
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []rfd.Event
	hook   func(ev rfd.Event)
}

func (e *eventLog) Notify(ev rfd.Event) {
	e.mu.Lock()
	e.events = append(e.events, ev)
	hook := e.hook
	e.mu.Unlock()
	if hook != nil {
		hook(ev)
	}
}

func (e *eventLog) texts(kind rfd.EventKind) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, ev := range e.events {
		if ev.Kind == kind {
			out = append(out, ev.Text)
		}
	}
	return out
}

// memListenLog 内存监听日志
type memListenLog struct {
	mu    sync.Mutex
	jobs  []string
	lines []string
	fixes []GPSFix
}

func (m *memListenLog) RecordLine(_ context.Context, jobID string, _ time.Time, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, jobID)
	m.lines = append(m.lines, line)
	return nil
}

func (m *memListenLog) RecordFix(_ context.Context, _ string, fix GPSFix) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixes = append(m.fixes, fix)
	return nil
}
