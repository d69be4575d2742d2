package rfd

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SendUntilAcknowledged 反复写出命令字节直到收到应答。
// 无期限命令一直重试（仍可被中断）；有期限命令超时返回 ErrConnection。
func (e *Engine) SendUntilAcknowledged(ctx context.Context, op Opcode) error {
	spec, err := e.profile.Spec(op)
	if err != nil {
		return err
	}
	err = e.exchange(ctx, []byte{spec.Wire}, spec.Ack, spec.Deadline, true)
	e.n.emit(Event{Kind: EventHandshake, Opcode: spec.Name, Result: handshakeResult(err)})
	if err != nil {
		if errors.Is(err, ErrConnection) {
			e.n.status("No Acknowledge Received, Connection Error")
		}
		return fmt.Errorf("%s: %w", spec.Name, err)
	}
	return nil
}

// exchange 通用的“写-读-判定”循环，不设固定间隔，节奏由读超时决定
func (e *Engine) exchange(ctx context.Context, payload []byte, ack AckPredicate, limit time.Duration, notifyWaiting bool) error {
	var deadline time.Time
	if limit > 0 {
		deadline = e.clock.Now().Add(limit)
	}
	if notifyWaiting {
		e.n.armWaiting()
	}
	for {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		if err := e.Write(payload); err != nil {
			return err
		}
		got, err := e.t.Read(1)
		if err != nil {
			return err
		}
		e.n.received(got)
		if len(got) == 1 && ack(got[0]) {
			return nil
		}
		if notifyWaiting {
			e.n.waiting()
		}
		if !deadline.IsZero() && e.clock.Now().After(deadline) {
			return ErrConnection
		}
	}
}

func handshakeResult(err error) string {
	switch {
	case err == nil:
		return "ack"
	case errors.Is(err, ErrConnection):
		return "timeout"
	case errors.Is(err, ErrInterrupted):
		return "interrupted"
	default:
		return "error"
	}
}
