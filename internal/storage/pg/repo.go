package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/rfd-station/internal/station"
)

// ListenLogRepo 监听日志仓库，实现 station.ListenRecorder
type ListenLogRepo struct {
	Pool *pgxpool.Pool
}

// RecordLine 保存一行监听数据
func (r *ListenLogRepo) RecordLine(ctx context.Context, jobID string, at time.Time, line string) error {
	const q = `INSERT INTO listen_lines (job_id, line, received_at) VALUES ($1,$2,$3)`
	_, err := r.Pool.Exec(ctx, q, jobID, line, at)
	return err
}

// RecordFix 保存一次 GPS 定位
func (r *ListenLogRepo) RecordFix(ctx context.Context, jobID string, fix station.GPSFix) error {
	const q = `INSERT INTO gps_fixes (job_id, fix_time, lat, lon, alt_feet, sats, received_at)
               VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.Pool.Exec(ctx, q, jobID, fix.FixTime, fix.Lat, fix.Lon, fix.AltFeet, fix.Sats, fix.Received)
	return err
}

// ListenLine 查询结果
type ListenLine struct {
	JobID      string    `json:"jobId"`
	Line       string    `json:"line"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// RecentLines 最近的监听行，最新在前；jobID 为空时不过滤
func (r *ListenLogRepo) RecentLines(ctx context.Context, jobID string, limit int) ([]ListenLine, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	const q = `SELECT job_id, line, received_at FROM listen_lines
               WHERE ($1 = '' OR job_id = $1)
               ORDER BY received_at DESC, id DESC LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ListenLine
	for rows.Next() {
		var l ListenLine
		if err := rows.Scan(&l.JobID, &l.Line, &l.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LatestFix 某任务最近一次定位；没有定位时返回 nil
func (r *ListenLogRepo) LatestFix(ctx context.Context, jobID string) (*station.GPSFix, error) {
	const q = `SELECT fix_time, lat, lon, alt_feet, sats, received_at FROM gps_fixes
               WHERE job_id = $1 ORDER BY received_at DESC, id DESC LIMIT 1`
	rows, err := r.Pool.Query(ctx, q, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var f station.GPSFix
	if err := rows.Scan(&f.FixTime, &f.Lat, &f.Lon, &f.AltFeet, &f.Sats, &f.Received); err != nil {
		return nil, err
	}
	return &f, nil
}
