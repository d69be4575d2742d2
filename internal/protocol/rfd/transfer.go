package rfd

import (
	"bytes"
	"context"
	"strconv"
	"strings"
)

// State 分块传输状态
type State int

const (
	StateAwaitingSize State = iota
	StateReceiving
	StateRetrying
	StateResyncing
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingSize:
		return "awaiting_size"
	case StateReceiving:
		return "receiving"
	case StateRetrying:
		return "retrying"
	case StateResyncing:
		return "resyncing"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// TransferSession 单次图像传输的全部可变状态。
// WordLength 的自适应缩减只在本会话内有效。
type TransferSession struct {
	TargetPath    string `json:"targetPath"`
	WordLength    int    `json:"wordLength"`
	TotalSize     int    `json:"totalSize"`
	BytesReceived int    `json:"bytesReceived"`
	RetryCount    int    `json:"retryCount"`
	State         State  `json:"state"`
	// Partial 重试耗尽或被中断，负载可能不完整
	Partial bool `json:"partial"`
	Chunks  int  `json:"chunks"`
	Resyncs int  `json:"resyncs"`
}

// TransferResult 传输结束后的会话快照与累积的 base64 负载
type TransferResult struct {
	Session TransferSession
	Payload []byte
}

// NewSession 以引擎的初始块长创建会话
func (e *Engine) NewSession(targetPath string) *TransferSession {
	return &TransferSession{TargetPath: targetPath, WordLength: e.word, State: StateAwaitingSize}
}

// ReceiveImage 接收一幅图像的 base64 负载。
// 校验失败时回 'N' 并重同步，至多重试 MaxRetries 次；耗尽后接受最后一块并以部分结果结束，不返回错误。
// 中断在块之间生效，返回已收到的部分负载与 ErrInterrupted。
func (e *Engine) ReceiveImage(ctx context.Context, targetPath string) (*TransferResult, error) {
	sess := e.NewSession(targetPath)
	var buf bytes.Buffer

	e.n.status("Confirmed photo request")
	line, err := e.ReadLine()
	if err != nil {
		return e.finish(sess, &buf), err
	}
	if size, perr := strconv.Atoi(strings.TrimSpace(string(line))); perr == nil && size > 0 {
		sess.TotalSize = size
		e.Status("Total Picture Size: %d", size)
	} else {
		e.n.status("Error retrieving picture size")
	}
	e.n.progress(0, sess.TotalSize)
	sess.State = StateReceiving

	for {
		if ctx.Err() != nil {
			sess.Partial = true
			return e.finish(sess, &buf), ErrInterrupted
		}
		e.Status("Current Received Position: %d", buf.Len())

		token, err := e.t.Read(DigestSize)
		if err != nil {
			sess.Partial = true
			return e.finish(sess, &buf), err
		}
		word, err := e.t.Read(sess.WordLength)
		if err != nil {
			sess.Partial = true
			return e.finish(sess, &buf), err
		}
		// 发送端在对齐边界后静默：负载恰为 1000 的整数倍
		if len(token) == 0 && len(word) == 0 {
			break
		}

		if VerifyChunk(token, word) {
			sess.RetryCount = 0
			if err := e.Write([]byte{AckChunk}); err != nil {
				sess.Partial = true
				return e.finish(sess, &buf), err
			}
			e.accept(sess, &buf, word, "ok")
		} else {
			if err := e.Write([]byte{NackChunk}); err != nil {
				sess.Partial = true
				return e.finish(sess, &buf), err
			}
			e.n.emit(Event{Kind: EventChunk, Result: "mismatch", WordLength: sess.WordLength})
			if sess.RetryCount < e.retries {
				sess.RetryCount++
				sess.State = StateRetrying
				e.Status("try number: %d", sess.RetryCount)
				e.Status("\tpos @ %d", buf.Len())
				e.Status("\twordlength %d", sess.WordLength)
				if sess.WordLength > MinWordLength {
					sess.WordLength -= WordLengthStep
				}
				sess.State = StateResyncing
				if err := e.Resync(); err != nil {
					sess.Partial = true
					return e.finish(sess, &buf), err
				}
				sess.Resyncs++
				sess.State = StateReceiving
				continue
			}
			// 重试耗尽：保留损坏块，尽量给出可显示的部分图像
			sess.Partial = true
			e.accept(sess, &buf, word, "forced")
			break
		}

		if buf.Len()%1000 != 0 {
			break
		}
	}
	return e.finish(sess, &buf), nil
}

func (e *Engine) accept(sess *TransferSession, buf *bytes.Buffer, word []byte, result string) {
	buf.Write(word)
	sess.Chunks++
	sess.BytesReceived = buf.Len()
	e.n.emit(Event{Kind: EventChunk, Result: result, Done: len(word), WordLength: sess.WordLength})
	e.n.progress(sess.BytesReceived, sess.TotalSize)
}

func (e *Engine) finish(sess *TransferSession, buf *bytes.Buffer) *TransferResult {
	sess.State = StateComplete
	sess.BytesReceived = buf.Len()
	outcome := "complete"
	if sess.Partial {
		outcome = "partial"
	}
	e.n.emit(Event{Kind: EventTransfer, Result: outcome, Done: sess.BytesReceived, Total: sess.TotalSize, WordLength: sess.WordLength})
	return &TransferResult{Session: *sess, Payload: buf.Bytes()}
}
