package models

import (
	"time"
)

// 注意：
// - 保持与 db/migrations/0001_init_up.sql 完全对齐
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// ImageTransfer 映射 image_transfers 表
type ImageTransfer struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// 工作队列任务 ID（uuid）
	JobID string `gorm:"column:job_id;type:text;not null;index"`
	Kind  string `gorm:"column:kind;type:text;not null"`
	Name  string `gorm:"column:name;type:text;not null"`
	Path  string `gorm:"column:path;type:text;not null"`
	// 解码后的图像字节数与 base64 负载字节数
	ImageBytes   int32 `gorm:"column:image_bytes;not null"`
	PayloadBytes int32 `gorm:"column:payload_bytes;not null"`
	// 发送端宣告的大小，可能与实际不符
	TotalSize  int32     `gorm:"column:total_size;not null"`
	Chunks     int32     `gorm:"column:chunks;not null"`
	Resyncs    int32     `gorm:"column:resyncs;not null;default:0"`
	WordLength int32     `gorm:"column:word_length;not null"`
	Partial    bool      `gorm:"column:partial;not null;default:false"`
	Fallback   bool      `gorm:"column:fallback;not null;default:false"`
	StartedAt  time.Time `gorm:"column:started_at;not null"`
	FinishedAt time.Time `gorm:"column:finished_at;not null;index:idx_transfers_finished,sort:desc"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ImageTransfer) TableName() string { return "image_transfers" }

// ListenLine 映射 listen_lines 表
type ListenLine struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	JobID      string    `gorm:"column:job_id;type:text;not null;index"`
	Line       string    `gorm:"column:line;type:text;not null"`
	ReceivedAt time.Time `gorm:"column:received_at;not null"`
}

func (ListenLine) TableName() string { return "listen_lines" }

// GPSFix 映射 gps_fixes 表
type GPSFix struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	JobID      string    `gorm:"column:job_id;type:text;not null;index"`
	FixTime    string    `gorm:"column:fix_time;type:text;not null"`
	Lat        float64   `gorm:"column:lat;not null"`
	Lon        float64   `gorm:"column:lon;not null"`
	AltFeet    float64   `gorm:"column:alt_feet;not null"`
	Sats       int32     `gorm:"column:sats;not null"`
	ReceivedAt time.Time `gorm:"column:received_at;not null"`
}

func (GPSFix) TableName() string { return "gps_fixes" }
