package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// bugstPort go.bug.st/serial 驱动
type bugstPort struct {
	serial.Port
}

func openBugst(opts Options) (Port, error) {
	mode := &serial.Mode{
		BaudRate: opts.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(opts.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Device, err)
	}
	if err := p.SetReadTimeout(opts.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", opts.Device, err)
	}
	return &bugstPort{Port: p}, nil
}

func (p *bugstPort) ResetInput() error  { return p.ResetInputBuffer() }
func (p *bugstPort) ResetOutput() error { return p.ResetOutputBuffer() }

// ListPorts 枚举本机可用串口
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
