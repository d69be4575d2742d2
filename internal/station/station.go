// Package station 组合链路协议操作（取图、设置、对时、命令、监听），
// 并通过单工作协程保证同一时刻只有一个操作占用串口。
package station

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/imagestore"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// TransferRecord 一次图像传输的持久化记录
type TransferRecord struct {
	JobID        string
	Kind         Kind
	Name         string
	Path         string
	ImageBytes   int
	PayloadBytes int
	TotalSize    int
	Chunks       int
	Resyncs      int
	WordLength   int
	Partial      bool
	Fallback     bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// TransferRecorder 传输记录存储
type TransferRecorder interface {
	RecordTransfer(ctx context.Context, rec TransferRecord) error
}

// ListenRecorder 监听日志存储
type ListenRecorder interface {
	RecordLine(ctx context.Context, jobID string, at time.Time, line string) error
	RecordFix(ctx context.Context, jobID string, fix GPSFix) error
}

// Outcome 操作结果
type Outcome struct {
	Result  any
	Partial bool
}

// Station 地面站操作集合，不持有串口
type Station struct {
	link      cfgpkg.LinkConfig
	profile   rfd.Profile
	store     *imagestore.Store
	logger    *zap.Logger
	transfers TransferRecorder
	listenLog ListenRecorder
	now       func() time.Time
}

// Option 构造选项
type Option func(*Station)

// WithTransferRecorder 记录图像传输
func WithTransferRecorder(r TransferRecorder) Option { return func(s *Station) { s.transfers = r } }

// WithListenRecorder 记录监听行与定位
func WithListenRecorder(r ListenRecorder) Option { return func(s *Station) { s.listenLog = r } }

// WithClock 替换时间源
func WithClock(now func() time.Time) Option { return func(s *Station) { s.now = now } }

// New 创建 Station
func New(link cfgpkg.LinkConfig, profile rfd.Profile, store *imagestore.Store, logger *zap.Logger, opts ...Option) *Station {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Station{
		link:    link,
		profile: profile,
		store:   store,
		logger:  logger.With(zap.String("component", "station")),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// EngineOptions 每个任务新建引擎时使用的参数
func (s *Station) EngineOptions() rfd.Options {
	return rfd.Options{WordLength: s.link.WordLength, MaxRetries: s.link.MaxRetries, Profile: s.profile}
}

// Execute 在已打开的链路上执行一个请求
func (s *Station) Execute(ctx context.Context, eng *rfd.Engine, req Request) (Outcome, error) {
	switch req.Kind {
	case KindLatestImage:
		return s.latestImage(ctx, eng, req.Name)
	case KindImageByName:
		return s.imageByName(ctx, eng, req.Name, req.Confirm)
	case KindListImages:
		res, err := s.listImages(ctx, eng)
		return Outcome{Result: res}, err
	case KindGetSettings:
		res, err := s.getSettings(ctx, eng)
		return Outcome{Result: res}, err
	case KindSetSettings:
		err := s.setSettings(ctx, eng, *req.Settings)
		return Outcome{Result: req.Settings}, err
	case KindFlipHorizontal:
		return Outcome{}, s.flip(ctx, eng, rfd.OpFlipHorizontal)
	case KindFlipVertical:
		return Outcome{}, s.flip(ctx, eng, rfd.OpFlipVertical)
	case KindTimeSync:
		res, err := eng.TimeSync(ctx, s.timeSyncPings())
		return Outcome{Result: res}, err
	case KindPing:
		res, err := eng.Ping(ctx, req.Samples)
		return Outcome{Result: res}, err
	case KindRuntimeData:
		res, err := s.runtimeData(ctx, eng)
		return Outcome{Result: res}, err
	case KindCommand:
		res, err := s.command(ctx, eng, req.Identifier, req.Command)
		return Outcome{Result: res}, err
	case KindListen:
		res, err := s.listen(ctx, eng)
		return Outcome{Result: res}, err
	}
	return Outcome{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
}

func (s *Station) timeSyncPings() int {
	if s.link.TimeSyncPings >= 2 {
		return s.link.TimeSyncPings
	}
	return DefaultPingSamples
}

type jobIDKey struct{}

// WithJobID 将任务 ID 放入 context
func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, jobIDKey{}, id)
}

// JobIDFrom 取出任务 ID
func JobIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey{}).(string)
	return id
}
