package station

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taoyao-code/rfd-station/internal/imagestore"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// RuntimeDataTimeout 运行数据接收总期限
const RuntimeDataTimeout = 60 * time.Second

func (s *Station) getSettings(ctx context.Context, eng *rfd.Engine) (rfd.CameraSettings, error) {
	raw, settings, err := eng.GetSettings(ctx)
	if raw != nil {
		if werr := imagestore.WriteText(s.link.SettingsFile, raw); werr != nil {
			eng.Status("Error with Opening File")
			return settings, werr
		}
		eng.Status("File Successfully Created")
	}
	if err != nil {
		return settings, err
	}
	eng.Status("Width = %d", settings.Width)
	eng.Status("Height = %d", settings.Height)
	eng.Status("Sharpness = %d", settings.Sharpness)
	eng.Status("Brightness = %d", settings.Brightness)
	eng.Status("Contrast = %d", settings.Contrast)
	eng.Status("Saturation = %d", settings.Saturation)
	eng.Status("ISO = %d", settings.ISO)
	return settings, nil
}

// setSettings 先落盘再下发
func (s *Station) setSettings(ctx context.Context, eng *rfd.Engine, settings rfd.CameraSettings) error {
	if err := imagestore.WriteText(s.link.SettingsFile, settings.Text()); err != nil {
		eng.Status("Error with Opening File")
		return err
	}
	return eng.SetSettings(ctx, settings)
}

func (s *Station) flip(ctx context.Context, eng *rfd.Engine, op rfd.Opcode) error {
	if err := eng.SendUntilAcknowledged(ctx, op); err != nil {
		return err
	}
	eng.Status("Camera %s acknowledged", strings.ReplaceAll(op.String(), "_", " "))
	return nil
}

// RuntimeData 遥测端运行数据
type RuntimeData struct {
	Lines []string `json:"lines"`
	File  string   `json:"file"`
}

// runtimeData 握手（10 秒期限）后读取到 '\r' 或空读，总时长不超过 60 秒
func (s *Station) runtimeData(ctx context.Context, eng *rfd.Engine) (RuntimeData, error) {
	out := RuntimeData{File: s.link.RuntimeDataFile}
	if err := eng.SendUntilAcknowledged(ctx, rfd.OpRuntimeData); err != nil {
		return out, err
	}
	start := s.now()
	first, err := eng.ReadLine()
	if err != nil {
		return out, err
	}
	data := first
	if len(first) > 0 && !bytes.Equal(first, []byte("\r")) {
		rest, rerr := eng.ReadUntil(ctx, '\r', RuntimeDataTimeout)
		data = append(data, rest...)
		err = rerr
	} else {
		data = nil
	}
	if werr := imagestore.WriteText(s.link.RuntimeDataFile, data); werr != nil {
		eng.Status("Error opening file")
		return out, werr
	}
	if err != nil {
		if errors.Is(err, rfd.ErrTransportTimeout) {
			eng.Status("Error receiving %s", s.link.RuntimeDataFile)
		}
		return out, err
	}
	eng.Status("%s saved", s.link.RuntimeDataFile)
	eng.Status("Receive Time = %.2f", s.elapsedSince(start).Seconds())
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimRight(l, "\r"); l != "" {
			out.Lines = append(out.Lines, l)
			eng.Status("%s", l)
		}
	}
	return out, nil
}

// CommandResult 命令交换结果
type CommandResult struct {
	Sent         string  `json:"sent"`
	Acknowledged bool    `json:"acknowledged"`
	Response     string  `json:"response,omitempty"`
	GPS          *GPSFix `json:"gps,omitempty"`
}

// command 反复发送 "identifier?command!" 直到收到 "identifier\n"，再等待以 identifier 开头且含 '!' 的回复
func (s *Station) command(ctx context.Context, eng *rfd.Engine, identifier, cmd string) (CommandResult, error) {
	out := CommandResult{Sent: identifier + "?" + cmd + "!"}
	eng.Status("%s", s.now().Format("15:04:05"))
	for !out.Acknowledged {
		if ctx.Err() != nil {
			eng.Status("Interrupted")
			return out, rfd.ErrInterrupted
		}
		if err := eng.Write([]byte(out.Sent)); err != nil {
			return out, err
		}
		eng.Status("Sent: %s", out.Sent)
		line, err := eng.ReadLine()
		if err != nil {
			return out, err
		}
		if string(line) == identifier+"\n" {
			out.Acknowledged = true
			eng.Status("Acknowledged at: %s", s.now().Format("15:04:05"))
		}
	}

	for {
		if ctx.Err() != nil {
			eng.Status("Interrupted")
			return out, rfd.ErrInterrupted
		}
		line, err := eng.ReadLine()
		if err != nil {
			return out, err
		}
		text := strings.TrimRight(string(line), "\r\n")
		if text == "" {
			continue
		}
		if strings.Split(text, ";")[0] == identifier && strings.Contains(text, "!") {
			out.Response = text
			if fix, ok := s.payloadLine(ctx, eng, text, responseBody(text)); ok {
				out.GPS = &fix
			}
			return out, nil
		}
	}
}

// responseBody 取 "identifier;body!" 中的 body
func responseBody(text string) string {
	_, body, ok := strings.Cut(text, ";")
	if !ok {
		return ""
	}
	if i := strings.LastIndexByte(body, '!'); i >= 0 {
		body = body[:i]
	}
	return body
}
