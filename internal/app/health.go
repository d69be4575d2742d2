package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/health"
	redisstorage "github.com/taoyao-code/rfd-station/internal/storage/redis"
	"github.com/taoyao-code/rfd-station/internal/transport"
)

// NewHealthAggregator 串口与工作协程是必选检查项
func NewHealthAggregator(serial cfgpkg.SerialConfig, worker health.WorkerStatusSource) *health.Aggregator {
	return health.NewAggregator(
		health.NewSerialChecker(serial.Device, transport.ListPorts),
		health.NewWorkerChecker(worker),
	)
}

// AddDatabaseChecker 添加数据库检查器
func AddDatabaseChecker(aggregator *health.Aggregator, pool *pgxpool.Pool) {
	if pool != nil {
		aggregator.AddChecker(health.NewDatabaseChecker(pool))
	}
}

// AddRedisChecker 添加 Redis 检查器
func AddRedisChecker(aggregator *health.Aggregator, client *redisstorage.Client) {
	if client != nil {
		aggregator.AddChecker(health.NewRedisChecker(client))
	}
}
