package app

import (
	"fmt"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/imagestore"
	"github.com/taoyao-code/rfd-station/internal/metrics"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
	"github.com/taoyao-code/rfd-station/internal/station"
	"github.com/taoyao-code/rfd-station/internal/transport"
)

// LoadProfile 读取固件配置；未配置路径时使用默认值
func LoadProfile(cfg cfgpkg.LinkConfig, log *zap.Logger) (rfd.Profile, error) {
	if cfg.ProfilePath == "" {
		return rfd.DefaultProfile(), nil
	}
	p, err := rfd.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return p, fmt.Errorf("load firmware profile: %w", err)
	}
	log.Info("firmware profile loaded",
		zap.String("name", p.Name),
		zap.String("ping_marker", p.PingMarker),
		zap.String("time_sync_opcode", p.TimeSyncOpcode))
	return p, nil
}

// NewWorker 组装 Station 与单工作协程
func NewWorker(cfg *cfgpkg.Config, obs rfd.Observer, m *metrics.LinkMetrics, log *zap.Logger, opts ...station.Option) (*station.Worker, error) {
	profile, err := LoadProfile(cfg.Link, log)
	if err != nil {
		return nil, err
	}
	store := imagestore.New(cfg.Link, log)
	st := station.New(cfg.Link, profile, store, log, opts...)
	opener := transport.NewOpener(cfg.Serial)
	return station.NewWorker(st, opener, obs, log, station.WorkerOptions{
		QueueSize:  cfg.Worker.QueueSize,
		HistoryMax: cfg.Worker.HistoryMax,
		Metrics:    m,
	}), nil
}
