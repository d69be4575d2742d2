package rfd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SettingsAckTimeout 写出新设置后等待确认的期限
const SettingsAckTimeout = 10 * time.Second

// SettingsSendDelay 握手确认后、写出新设置前的停顿，遥测端固件需要这段时间切换到读参数
const SettingsSendDelay = 500 * time.Millisecond

// CameraSettings 遥测端相机参数，线上与文件中均为每行一个十进制整数，顺序固定
type CameraSettings struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	Sharpness  int `json:"sharpness"`
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`
	ISO        int `json:"iso"`
}

// DefaultCameraSettings 相机出厂参数
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{Width: 650, Height: 450, Sharpness: 0, Brightness: 50, Contrast: 0, Saturation: 0, ISO: 400}
}

func (s *CameraSettings) fields() []*int {
	return []*int{&s.Width, &s.Height, &s.Sharpness, &s.Brightness, &s.Contrast, &s.Saturation, &s.ISO}
}

// Validate 检查取值范围
func (s CameraSettings) Validate() error {
	check := func(name string, v, lo, hi int) error {
		if v < lo || v > hi {
			return fmt.Errorf("%s %d out of range [%d, %d]", name, v, lo, hi)
		}
		return nil
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	for _, err := range []error{
		check("sharpness", s.Sharpness, -100, 100),
		check("brightness", s.Brightness, 0, 100),
		check("contrast", s.Contrast, -100, 100),
		check("saturation", s.Saturation, -100, 100),
		check("iso", s.ISO, 100, 800),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Text 序列化为换行分隔文本
func (s CameraSettings) Text() []byte {
	var b bytes.Buffer
	for _, p := range s.fields() {
		b.WriteString(strconv.Itoa(*p))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// ParseCameraSettings 解析换行分隔文本，忽略空行与首尾空白
func ParseCameraSettings(text []byte) (CameraSettings, error) {
	var s CameraSettings
	fields := s.fields()
	i := 0
	sc := bufio.NewScanner(bytes.NewReader(text))
	for sc.Scan() && i < len(fields) {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return s, fmt.Errorf("camera setting %d: %w", i+1, err)
		}
		*fields[i] = v
		i++
	}
	if i < len(fields) {
		return s, fmt.Errorf("camera settings: want %d values, got %d", len(fields), i)
	}
	return s, nil
}

// GetSettings 取回遥测端当前相机参数。返回原始文本（用于落盘）与解析结果。
func (e *Engine) GetSettings(ctx context.Context) ([]byte, CameraSettings, error) {
	e.n.status("Retrieving Camera Settings")
	if err := e.SendUntilAcknowledged(ctx, OpGetSettings); err != nil {
		return nil, CameraSettings{}, err
	}
	raw, err := e.ReadUntil(ctx, '\r', 0)
	e.n.received(raw)
	if err != nil {
		return raw, CameraSettings{}, err
	}
	s, err := ParseCameraSettings(raw)
	if err != nil {
		e.n.status("Camera Setting Retrieval Error")
		return raw, s, err
	}
	return raw, s, nil
}

// SetSettings 下发新的相机参数，并在 10 秒内等待 'A' 确认
func (e *Engine) SetSettings(ctx context.Context, s CameraSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := e.SendUntilAcknowledged(ctx, OpSetSettings); err != nil {
		return err
	}
	e.clock.Sleep(SettingsSendDelay)
	start := e.clock.Now()
	for _, p := range s.fields() {
		if err := e.Write([]byte(strconv.Itoa(*p) + "\n")); err != nil {
			return err
		}
	}
	if err := e.WaitFor(ctx, AckGeneric, SettingsAckTimeout); err != nil {
		e.n.status("Acknowledge not Received")
		return fmt.Errorf("set_settings confirm: %w", err)
	}
	e.Status("Send Time = %.2f", e.clock.Now().Sub(start).Seconds())
	return nil
}

// WaitFor 只读不写地等待某个字节，超过 limit 返回 ErrConnection
func (e *Engine) WaitFor(ctx context.Context, want byte, limit time.Duration) error {
	deadline := e.clock.Now().Add(limit)
	e.n.armWaiting()
	for {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		b, err := e.t.Read(1)
		if err != nil {
			return err
		}
		e.n.received(b)
		if len(b) == 1 && b[0] == want {
			return nil
		}
		e.n.waiting()
		if e.clock.Now().After(deadline) {
			return ErrConnection
		}
	}
}
