package station

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/metrics"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
	"github.com/taoyao-code/rfd-station/internal/transport"
)

var (
	// ErrBusy 队列已满
	ErrBusy = errors.New("station: worker queue is full")
	// ErrQueueClosed 工作协程已停止
	ErrQueueClosed = errors.New("station: worker queue closed")
	// ErrJobNotFound 任务不存在
	ErrJobNotFound = errors.New("station: job not found")
)

// Worker 单工作协程：按 FIFO 顺序一次执行一个任务，每个任务独占串口
type Worker struct {
	station *Station
	opener  transport.Opener
	obs     rfd.Observer
	logger  *zap.Logger
	metrics *metrics.LinkMetrics

	queue      chan *job
	historyMax int

	mu      sync.Mutex
	jobs    map[string]*job
	order   []string
	running *job
	closed  bool
	lastErr string
	stopped chan struct{}
}

// WorkerOptions 工作协程参数
type WorkerOptions struct {
	QueueSize  int
	HistoryMax int
	Metrics    *metrics.LinkMetrics
}

// NewWorker 创建工作协程（需调用 Run 启动）
func NewWorker(st *Station, opener transport.Opener, obs rfd.Observer, logger *zap.Logger, opts WorkerOptions) *Worker {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 8
	}
	if opts.HistoryMax <= 0 {
		opts.HistoryMax = 100
	}
	if obs == nil {
		obs = rfd.NopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		station:    st,
		opener:     opener,
		obs:        obs,
		logger:     logger.With(zap.String("component", "worker")),
		metrics:    opts.Metrics,
		queue:      make(chan *job, opts.QueueSize),
		historyMax: opts.HistoryMax,
		jobs:       make(map[string]*job),
		stopped:    make(chan struct{}),
	}
}

// Submit 校验并入队，队列满返回 ErrBusy
func (w *Worker) Submit(req Request) (JobInfo, error) {
	if err := req.Normalize(); err != nil {
		return JobInfo{}, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		info:   JobInfo{ID: uuid.NewString(), Request: req, State: JobQueued, CreatedAt: time.Now()},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	j.ctx = WithJobID(ctx, j.info.ID)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		cancel()
		return JobInfo{}, ErrQueueClosed
	}
	select {
	case w.queue <- j:
	default:
		w.mu.Unlock()
		cancel()
		return JobInfo{}, ErrBusy
	}
	w.jobs[j.info.ID] = j
	w.order = append(w.order, j.info.ID)
	w.trimLocked()
	info := j.snapshot()
	w.mu.Unlock()

	w.setQueueDepth()
	w.notify(info)
	return info, nil
}

// Cancel 设置协作式中断：排队中的任务直接取消，运行中的任务在下一个检查点停止
func (w *Worker) Cancel(id string) (JobInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	j, ok := w.jobs[id]
	if !ok {
		return JobInfo{}, ErrJobNotFound
	}
	j.cancel()
	return j.snapshot(), nil
}

// Get 查询任务
func (w *Worker) Get(id string) (JobInfo, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	j, ok := w.jobs[id]
	if !ok {
		return JobInfo{}, false
	}
	return j.snapshot(), true
}

// List 最近的任务，最新在前
func (w *Worker) List() []JobInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]JobInfo, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.jobs[id].snapshot())
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}

// Wait 阻塞直到任务结束或 ctx 取消
func (w *Worker) Wait(ctx context.Context, id string) (JobInfo, error) {
	w.mu.Lock()
	j, ok := w.jobs[id]
	w.mu.Unlock()
	if !ok {
		return JobInfo{}, ErrJobNotFound
	}
	select {
	case <-j.done:
	case <-ctx.Done():
		return JobInfo{}, ctx.Err()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return j.snapshot(), nil
}

// WorkerStatus 健康检查用状态
type WorkerStatus struct {
	Running   *JobInfo `json:"running,omitempty"`
	Queued    int      `json:"queued"`
	Closed    bool     `json:"closed"`
	LastError string   `json:"lastError,omitempty"`
}

// Status 当前状态
func (w *Worker) Status() WorkerStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := WorkerStatus{Queued: len(w.queue), Closed: w.closed, LastError: w.lastErr}
	if w.running != nil {
		info := w.running.snapshot()
		st.Running = &info
	}
	return st
}

// Run 消费队列直到 ctx 取消；退出时取消所有未结束任务
func (w *Worker) Run(ctx context.Context) {
	defer close(w.stopped)
	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			return
		case j := <-w.queue:
			w.setQueueDepth()
			w.execute(j)
		}
	}
}

// Stopped Run 退出后关闭
func (w *Worker) Stopped() <-chan struct{} { return w.stopped }

func (w *Worker) shutdown() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	for {
		select {
		case j := <-w.queue:
			j.cancel()
			w.finish(j, JobCancelled, "worker stopped", nil)
		default:
			return
		}
	}
}

func (w *Worker) execute(j *job) {
	if j.ctx.Err() != nil {
		w.finish(j, JobCancelled, "cancelled before start", nil)
		return
	}
	started := time.Now()
	w.mu.Lock()
	j.info.State = JobRunning
	j.info.StartedAt = &started
	w.running = j
	info := j.snapshot()
	w.mu.Unlock()
	w.notify(info)
	w.logger.Info("job started", zap.String("job_id", info.ID), zap.String("kind", string(info.Request.Kind)))

	out, err := w.run(j)

	state := JobSucceeded
	msg := ""
	switch {
	case err == nil && out.Partial:
		state = JobPartial
		msg = "transfer completed with corrupted chunks"
	case err == nil:
	case errors.Is(err, rfd.ErrInterrupted):
		state = JobCancelled
		msg = err.Error()
	default:
		state = JobFailed
		msg = err.Error()
	}
	if w.metrics != nil {
		w.metrics.JobDuration.WithLabelValues(string(info.Request.Kind)).Observe(time.Since(started).Seconds())
	}
	w.finish(j, state, msg, out.Result)
	if err != nil && state == JobFailed {
		w.logger.Warn("job failed", zap.String("job_id", info.ID), zap.String("kind", string(info.Request.Kind)), zap.Error(err))
	} else {
		w.logger.Info("job finished", zap.String("job_id", info.ID), zap.String("state", string(state)))
	}
}

// run 打开链路执行请求；任何 panic 都转换为失败结果
func (w *Worker) run(j *job) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("job panic", zap.String("job_id", j.info.ID), zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	link, err := w.opener.Open()
	if err != nil {
		return Outcome{}, fmt.Errorf("open serial link: %w", err)
	}
	defer func() {
		if cerr := link.Close(); cerr != nil {
			w.logger.Warn("close serial link failed", zap.Error(cerr))
		}
	}()
	obs := rfd.ObserverFunc(func(ev rfd.Event) {
		ev.JobID = j.info.ID
		w.obs.Notify(ev)
	})
	eng := rfd.NewEngine(link, obs, w.station.EngineOptions())
	return w.station.Execute(j.ctx, eng, j.info.Request)
}

func (w *Worker) finish(j *job, state JobState, msg string, result any) {
	now := time.Now()
	w.mu.Lock()
	j.info.State = state
	j.info.Message = msg
	j.info.Result = result
	j.info.FinishedAt = &now
	if w.running == j {
		w.running = nil
	}
	if state == JobFailed {
		w.lastErr = msg
	} else if state == JobSucceeded {
		w.lastErr = ""
	}
	info := j.snapshot()
	w.mu.Unlock()

	j.cancel()
	close(j.done)
	if w.metrics != nil {
		w.metrics.JobsTotal.WithLabelValues(string(info.Request.Kind), string(state)).Inc()
	}
	w.notify(info)
}

func (w *Worker) notify(info JobInfo) {
	w.obs.Notify(rfd.Event{
		Kind:   rfd.EventJob,
		Time:   time.Now(),
		JobID:  info.ID,
		Opcode: string(info.Request.Kind),
		Result: string(info.State),
		Text:   info.Message,
	})
}

func (w *Worker) setQueueDepth() {
	if w.metrics != nil {
		w.metrics.QueueDepth.Set(float64(len(w.queue)))
	}
}

// trimLocked 只保留最近 historyMax 个已结束任务
func (w *Worker) trimLocked() {
	for len(w.order) > w.historyMax {
		id := w.order[0]
		if j := w.jobs[id]; j != nil && !j.info.State.Terminal() {
			return
		}
		delete(w.jobs, id)
		w.order = w.order[1:]
	}
}
