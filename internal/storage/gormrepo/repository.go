package gormrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taoyao-code/rfd-station/internal/station"
	"github.com/taoyao-code/rfd-station/internal/storage/models"
)

// Open 在已有 pgx 连接池上打开 gorm，避免维护第二套连接
func Open(pool *pgxpool.Pool) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

// TransferRepo 图像传输记录仓库，实现 station.TransferRecorder
type TransferRepo struct {
	db *gorm.DB
}

// New 返回使用给定 *gorm.DB 的仓库
func New(db *gorm.DB) *TransferRepo {
	return &TransferRepo{db: db}
}

// RecordTransfer 写入一条传输记录
func (r *TransferRepo) RecordTransfer(ctx context.Context, rec station.TransferRecord) error {
	row := toModel(rec)
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListTransfers 最近的传输记录，最新在前
func (r *TransferRepo) ListTransfers(ctx context.Context, limit int) ([]models.ImageTransfer, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var out []models.ImageTransfer
	err := r.db.WithContext(ctx).
		Order("finished_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// TransfersByJob 某个任务产生的传输记录
func (r *TransferRepo) TransfersByJob(ctx context.Context, jobID string) ([]models.ImageTransfer, error) {
	var out []models.ImageTransfer
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func toModel(rec station.TransferRecord) models.ImageTransfer {
	return models.ImageTransfer{
		JobID:        rec.JobID,
		Kind:         string(rec.Kind),
		Name:         rec.Name,
		Path:         rec.Path,
		ImageBytes:   int32(rec.ImageBytes),
		PayloadBytes: int32(rec.PayloadBytes),
		TotalSize:    int32(rec.TotalSize),
		Chunks:       int32(rec.Chunks),
		Resyncs:      int32(rec.Resyncs),
		WordLength:   int32(rec.WordLength),
		Partial:      rec.Partial,
		Fallback:     rec.Fallback,
		StartedAt:    rec.StartedAt,
		FinishedAt:   rec.FinishedAt,
	}
}
