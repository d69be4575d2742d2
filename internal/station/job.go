package station

import (
	"context"
	"time"
)

// JobState 任务状态
type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobPartial   JobState = "partial"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// Terminal 是否已结束
func (s JobState) Terminal() bool {
	switch s {
	case JobSucceeded, JobPartial, JobFailed, JobCancelled:
		return true
	}
	return false
}

// JobInfo 任务快照
type JobInfo struct {
	ID         string     `json:"id"`
	Request    Request    `json:"request"`
	State      JobState   `json:"state"`
	Message    string     `json:"message,omitempty"`
	Result     any        `json:"result,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

type job struct {
	info   JobInfo
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func (j *job) snapshot() JobInfo {
	info := j.info
	if info.StartedAt != nil {
		t := *info.StartedAt
		info.StartedAt = &t
	}
	if info.FinishedAt != nil {
		t := *info.FinishedAt
		info.FinishedAt = &t
	}
	return info
}
