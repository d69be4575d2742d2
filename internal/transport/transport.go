// Package transport 提供 RFD 电台串口的半双工字节流抽象。
//
// 读取语义与电台固件约定一致：每次底层读取受固定超时约束，超时返回 0 字节，
// 上层据此识别“发送端静默”（块尾、同步结束等）。
package transport

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
)

// ErrClosed 端口已关闭
var ErrClosed = errors.New("transport: port closed")

// Port 串口驱动最小能力。Read 在读超时到期且无数据时返回 (0, nil)。
type Port interface {
	io.ReadWriteCloser
	ResetInput() error
	ResetOutput() error
}

// Transport 链路协议使用的字节流接口
type Transport interface {
	// Write 写出全部字节
	Write(p []byte) error
	// Read 读取至多 n 字节；底层一次读超时无数据即返回（可能短读或空）
	Read(n int) ([]byte, error)
	// ReadLine 读取到 '\n'（包含）或超时为止
	ReadLine() ([]byte, error)
	FlushInput() error
	FlushOutput() error
}

// Link 可关闭的 Transport，由 Opener 为每个任务打开
type Link interface {
	Transport
	io.Closer
}

// Opener 打开一条链路
type Opener interface {
	Open() (Link, error)
}

// OpenerFunc 函数适配器
type OpenerFunc func() (Link, error)

// Open 实现 Opener
func (f OpenerFunc) Open() (Link, error) { return f() }

// Conn 基于 Port 的 Transport 实现
type Conn struct {
	port Port
	one  [1]byte
}

// NewConn 包装已打开的端口
func NewConn(p Port) *Conn {
	return &Conn{port: p}
}

// Write 写出全部字节
func (c *Conn) Write(p []byte) error {
	for len(p) > 0 {
		n, err := c.port.Write(p)
		if err != nil {
			return fmt.Errorf("serial write: %w", err)
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

// Read 读取至多 n 字节，遇到一次空读（空闲超时）即返回已得数据
func (c *Conn) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got := 0
	for got < n {
		k, err := c.port.Read(buf[got:])
		got += k
		if err != nil {
			return buf[:got], fmt.Errorf("serial read: %w", err)
		}
		if k == 0 {
			break
		}
	}
	return buf[:got], nil
}

// ReadLine 逐字节读取直到换行或空闲超时
func (c *Conn) ReadLine() ([]byte, error) {
	var line []byte
	for {
		k, err := c.port.Read(c.one[:])
		if k == 1 {
			line = append(line, c.one[0])
			if c.one[0] == '\n' {
				return line, nil
			}
		}
		if err != nil {
			return line, fmt.Errorf("serial read: %w", err)
		}
		if k == 0 {
			return line, nil
		}
	}
}

// FlushInput 丢弃已接收未读取的数据
func (c *Conn) FlushInput() error { return c.port.ResetInput() }

// FlushOutput 丢弃已写入未发送的数据
func (c *Conn) FlushOutput() error { return c.port.ResetOutput() }

// Close 关闭端口
func (c *Conn) Close() error { return c.port.Close() }

// Options 打开端口所需参数
type Options struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// OpenPort 按驱动名打开端口：bugst（默认）或 tarm
func OpenPort(driver string, opts Options) (Port, error) {
	switch strings.ToLower(driver) {
	case "", "bugst":
		return openBugst(opts)
	case "tarm":
		return openTarm(opts)
	default:
		return nil, fmt.Errorf("unknown serial driver %q", driver)
	}
}

// NewOpener 根据串口配置构造 Opener，每次 Open 都重新打开设备
func NewOpener(cfg cfgpkg.SerialConfig) Opener {
	opts := Options{Device: cfg.Device, Baud: cfg.Baud, ReadTimeout: cfg.ReadTimeout}
	return OpenerFunc(func() (Link, error) {
		p, err := OpenPort(cfg.Driver, opts)
		if err != nil {
			return nil, err
		}
		return NewConn(p), nil
	})
}
