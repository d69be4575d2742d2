package rfd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile 遥测端固件的线协议差异。两代固件的 ping 标记与对时命令字节不同。
type Profile struct {
	Name           string `yaml:"name"`
	PingMarker     string `yaml:"pingMarker"`
	TimeSyncOpcode string `yaml:"timeSyncOpcode"`
}

// DefaultProfile 默认固件配置：ping 标记 '~'，对时命令 '8'
func DefaultProfile() Profile {
	return Profile{Name: "default", PingMarker: "~", TimeSyncOpcode: "8"}
}

// LoadProfile 读取 YAML 固件配置；path 为空时返回默认配置
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read firmware profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse firmware profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate 只接受已知的固件变体
func (p Profile) Validate() error {
	switch p.PingMarker {
	case "~", "P":
	default:
		return fmt.Errorf("pingMarker must be \"~\" or \"P\", got %q", p.PingMarker)
	}
	switch p.TimeSyncOpcode {
	case "8", "T":
	default:
		return fmt.Errorf("timeSyncOpcode must be \"8\" or \"T\", got %q", p.TimeSyncOpcode)
	}
	return nil
}

func (p Profile) pingMarker() byte {
	if len(p.PingMarker) != 1 {
		return '~'
	}
	return p.PingMarker[0]
}

func (p Profile) timeSyncByte() byte {
	if len(p.TimeSyncOpcode) != 1 {
		return '8'
	}
	return p.TimeSyncOpcode[0]
}
