package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/migrate"
	"github.com/taoyao-code/rfd-station/internal/storage/gormrepo"
	pgstorage "github.com/taoyao-code/rfd-station/internal/storage/pg"
)

// Storage 数据库相关组件；未启用数据库时为 nil
type Storage struct {
	Pool      *pgxpool.Pool
	Transfers *gormrepo.TransferRepo
	ListenLog *pgstorage.ListenLogRepo
}

// Close 关闭连接池
func (s *Storage) Close() {
	if s != nil && s.Pool != nil {
		s.Pool.Close()
	}
}

// ConnectDBAndMigrate 建立数据库连接并按需执行迁移
func ConnectDBAndMigrate(ctx context.Context, cfg cfgpkg.DatabaseConfig, log *zap.Logger) (*Storage, error) {
	if !cfg.Enabled {
		log.Info("database is disabled, transfer records and listen log are not persisted")
		return nil, nil
	}
	pool, err := pgstorage.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("db connect error", zap.Error(err))
		return nil, err
	}
	if cfg.AutoMigrate {
		n, err := (migrate.Runner{Dir: cfg.MigrationsDir, Logger: log}).Up(ctx, pool)
		if err != nil {
			log.Error("db migrate error", zap.Error(err))
			pool.Close()
			return nil, err
		}
		log.Info("db migrations applied", zap.Int("count", n))
	}
	db, err := gormrepo.Open(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &Storage{
		Pool:      pool,
		Transfers: gormrepo.New(db),
		ListenLog: &pgstorage.ListenLogRepo{Pool: pool},
	}, nil
}
