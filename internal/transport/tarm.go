package transport

import (
	"errors"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// tarmPort github.com/tarm/serial 驱动。
// 该驱动在读超时时返回 io.EOF，这里统一转换为空读。
type tarmPort struct {
	p *serial.Port
}

func openTarm(opts Options) (Port, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        opts.Device,
		Baud:        opts.Baud,
		ReadTimeout: opts.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Device, err)
	}
	return &tarmPort{p: p}, nil
}

func (t *tarmPort) Read(b []byte) (int, error) {
	n, err := t.p.Read(b)
	if n == 0 && errors.Is(err, io.EOF) {
		return 0, nil
	}
	return n, err
}

func (t *tarmPort) Write(b []byte) (int, error) { return t.p.Write(b) }
func (t *tarmPort) Close() error                { return t.p.Close() }

// tarm 只提供双向清空
func (t *tarmPort) ResetInput() error  { return t.p.Flush() }
func (t *tarmPort) ResetOutput() error { return t.p.Flush() }
