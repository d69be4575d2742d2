package station

import (
	"errors"
	"fmt"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// Kind 任务类型
type Kind string

const (
	KindLatestImage    Kind = "latest_image"
	KindListImages     Kind = "list_images"
	KindImageByName    Kind = "image_by_name"
	KindGetSettings    Kind = "get_settings"
	KindSetSettings    Kind = "set_settings"
	KindFlipHorizontal Kind = "flip_horizontal"
	KindFlipVertical   Kind = "flip_vertical"
	KindTimeSync       Kind = "time_sync"
	KindPing           Kind = "ping"
	KindRuntimeData    Kind = "runtime_data"
	KindCommand        Kind = "command"
	KindListen         Kind = "listen"
)

// Kinds 全部任务类型
var Kinds = []Kind{
	KindLatestImage, KindListImages, KindImageByName, KindGetSettings, KindSetSettings,
	KindFlipHorizontal, KindFlipVertical, KindTimeSync, KindPing, KindRuntimeData,
	KindCommand, KindListen,
}

// DefaultPingSamples ping 默认采样数
const DefaultPingSamples = 10

var (
	// ErrInvalidRequest 请求参数不合法
	ErrInvalidRequest = errors.New("station: invalid request")
	// ErrHighResNotConfirmed 高分辨率原图需要确认
	ErrHighResNotConfirmed = errors.New("station: high resolution image requires confirmation")
)

// Request 提交给工作队列的操作
type Request struct {
	Kind Kind `json:"kind"`
	// Name 最新图像的保存名（可选）或按名取图的图像名
	Name    string `json:"name,omitempty"`
	Confirm bool   `json:"confirm,omitempty"`
	// Settings set_settings 使用
	Settings *rfd.CameraSettings `json:"settings,omitempty"`
	// Samples ping 采样数
	Samples    int    `json:"samples,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Command    string `json:"command,omitempty"`
}

// Normalize 补默认值并校验
func (r *Request) Normalize() error {
	switch r.Kind {
	case KindLatestImage, KindListImages, KindGetSettings, KindFlipHorizontal, KindFlipVertical,
		KindTimeSync, KindRuntimeData, KindListen:
	case KindImageByName:
		if r.Name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidRequest)
		}
		if len(r.Name) > rfd.NameLength {
			r.Name = r.Name[:rfd.NameLength]
		}
	case KindSetSettings:
		if r.Settings == nil {
			return fmt.Errorf("%w: settings are required", ErrInvalidRequest)
		}
		if err := r.Settings.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	case KindPing:
		if r.Samples == 0 {
			r.Samples = DefaultPingSamples
		}
		if r.Samples < 2 {
			return fmt.Errorf("%w: samples must be at least 2", ErrInvalidRequest)
		}
	case KindCommand:
		if r.Identifier == "" || r.Command == "" {
			return fmt.Errorf("%w: null strings not allowed", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, r.Kind)
	}
	return nil
}
