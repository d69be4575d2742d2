package station

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/imagestore"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
	"github.com/taoyao-code/rfd-station/internal/transport"
)

func testLinkConfig(t *testing.T) cfgpkg.LinkConfig {
	dir := t.TempDir()
	return cfgpkg.LinkConfig{
		WordLength:      7000,
		MaxRetries:      5,
		ImageDir:        filepath.Join(dir, "Images"),
		Extension:       ".jpg",
		FallbackName:    "newimage",
		SettingsFile:    filepath.Join(dir, "camerasettings.txt"),
		ImageListFile:   filepath.Join(dir, "imagedata.txt"),
		RuntimeDataFile: filepath.Join(dir, "piruntimedata.txt"),
		TimeSyncPings:   3,
	}
}

type fakeTransfers struct {
	recs []TransferRecord
}

func (f *fakeTransfers) RecordTransfer(_ context.Context, rec TransferRecord) error {
	f.recs = append(f.recs, rec)
	return nil
}

func startWorker(t *testing.T, opener transport.Opener, obs rfd.Observer, opts ...Option) (*Worker, cfgpkg.LinkConfig) {
	t.Helper()
	link := testLinkConfig(t)
	st := New(link, rfd.DefaultProfile(), imagestore.New(link, nil), nil, opts...)
	w := NewWorker(st, opener, obs, nil, WorkerOptions{QueueSize: 4})
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-w.Stopped()
	})
	return w, link
}

func submitAndWait(t *testing.T, w *Worker, req Request) JobInfo {
	t.Helper()
	info, err := w.Submit(req)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done, err := w.Wait(ctx, info.ID)
	require.NoError(t, err)
	return done
}

func TestWorkerLatestImage(t *testing.T) {
	raw := []byte(strings.Repeat("jpeg-bytes!", 150))
	payload := rfd.EncodePayload(raw)
	link := &scriptLink{respond: imagePi('1', "i170304_05b.jpg", payload)}
	rec := &fakeTransfers{}
	w, cfg := startWorker(t, openerFor(link), nil, WithTransferRecorder(rec))

	info := submitAndWait(t, w, Request{Kind: KindLatestImage})
	require.Equal(t, JobSucceeded, info.State, info.Message)

	res, ok := info.Result.(ImageResult)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.ImageDir, "i170304_05b.jpg"), res.Saved.Path)
	got, err := os.ReadFile(res.Saved.Path)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.True(t, link.closed, "port closed after the job")

	require.Len(t, rec.recs, 1)
	assert.Equal(t, info.ID, rec.recs[0].JobID)
	assert.Equal(t, len(payload), rec.recs[0].PayloadBytes)
}

func TestWorkerLatestImageOperatorName(t *testing.T) {
	payload := rfd.EncodePayload([]byte("tiny"))
	link := &scriptLink{respond: imagePi('1', "x______________", payload)}
	w, cfg := startWorker(t, openerFor(link), nil)

	info := submitAndWait(t, w, Request{Kind: KindLatestImage, Name: "launch"})
	require.Equal(t, JobSucceeded, info.State, info.Message)
	assert.FileExists(t, filepath.Join(cfg.ImageDir, "launch.jpg"))
}

func TestWorkerImageByName(t *testing.T) {
	t.Run("低分辨率直接下载", func(t *testing.T) {
		payload := rfd.EncodePayload([]byte("thumbnail data"))
		link := &scriptLink{respond: imagePi('3', "", payload)}
		w, cfg := startWorker(t, openerFor(link), nil)

		info := submitAndWait(t, w, Request{Kind: KindImageByName, Name: "i170304_05b.jpg"})
		require.Equal(t, JobSucceeded, info.State, info.Message)
		assert.Equal(t, "3i170304_05b.jpgY", link.written())
		assert.FileExists(t, filepath.Join(cfg.ImageDir, "i170304_05b.jpg"))
	})

	t.Run("高分辨率需要确认", func(t *testing.T) {
		link := &scriptLink{}
		w, _ := startWorker(t, openerFor(link), nil)
		info := submitAndWait(t, w, Request{Kind: KindImageByName, Name: "i170304_05a.jpg"})
		assert.Equal(t, JobFailed, info.State)
		assert.Contains(t, info.Message, "confirmation")
		assert.Empty(t, link.written())
	})
}

func TestWorkerPartialTransfer(t *testing.T) {
	chunk := strings.Repeat("QUJD", 250)
	link := &scriptLink{}
	link.respond = func(l *scriptLink, p []byte) {
		switch string(p) {
		case "1":
			l.push("Ai170304_05b.jpg")
			l.push("1000\n" + rfd.Digest([]byte("other")) + chunk)
		case "S":
			l.push(rfd.Digest([]byte("other")) + chunk)
		}
	}
	w, _ := startWorker(t, openerFor(link), nil)
	info := submitAndWait(t, w, Request{Kind: KindLatestImage})
	assert.Equal(t, JobPartial, info.State)
	res := info.Result.(ImageResult)
	assert.True(t, res.Session.Partial)
	assert.Equal(t, 5, res.Session.Resyncs)
	assert.FileExists(t, res.Saved.Path)
}

func TestWorkerFailures(t *testing.T) {
	t.Run("打开串口失败", func(t *testing.T) {
		opener := transport.OpenerFunc(func() (transport.Link, error) { return nil, errors.New("no such device") })
		w, _ := startWorker(t, opener, nil)
		info := submitAndWait(t, w, Request{Kind: KindFlipVertical})
		assert.Equal(t, JobFailed, info.State)
		assert.Contains(t, info.Message, "no such device")
		assert.Equal(t, info.Message, w.Status().LastError)
	})

	t.Run("驱动 panic 转为失败", func(t *testing.T) {
		link := &scriptLink{panicOn: true}
		w, _ := startWorker(t, openerFor(link), nil)
		info := submitAndWait(t, w, Request{Kind: KindGetSettings})
		assert.Equal(t, JobFailed, info.State)
		assert.Contains(t, info.Message, "internal error")
		assert.True(t, link.closed)
	})
}

func TestWorkerQueue(t *testing.T) {
	link := testLinkConfig(t)
	st := New(link, rfd.DefaultProfile(), imagestore.New(link, nil), nil)
	w := NewWorker(st, openerFor(&scriptLink{}), nil, nil, WorkerOptions{QueueSize: 1})

	first, err := w.Submit(Request{Kind: KindFlipHorizontal})
	require.NoError(t, err)
	_, err = w.Submit(Request{Kind: KindFlipVertical})
	require.ErrorIs(t, err, ErrBusy)

	_, err = w.Submit(Request{Kind: "dance"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	// 排队中的任务被取消后不会占用串口
	_, err = w.Cancel(first.ID)
	require.NoError(t, err)
	_, err = w.Cancel("missing")
	require.ErrorIs(t, err, ErrJobNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	info, err := w.Wait(waitCtx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, JobCancelled, info.State)

	cancel()
	<-w.Stopped()
	_, err = w.Submit(Request{Kind: KindFlipHorizontal})
	require.ErrorIs(t, err, ErrQueueClosed)
	assert.Len(t, w.List(), 1)
}

func TestWorkerCancelRunningListen(t *testing.T) {
	link := &scriptLink{}
	link.push("hello\nGPS,12,30,15.5,33.5,-84.2,1000,9\n")
	var w *Worker
	obs := &eventLog{}
	obs.hook = func(ev rfd.Event) {
		if ev.Kind == rfd.EventGPS {
			_, _ = w.Cancel(ev.JobID)
		}
	}
	w, _ = startWorker(t, openerFor(link), obs)

	info, err := w.Submit(Request{Kind: KindListen})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done, err := w.Wait(ctx, info.ID)
	require.NoError(t, err)

	assert.Equal(t, JobSucceeded, done.State)
	res := done.Result.(ListenResult)
	assert.Equal(t, 2, res.Lines)
	assert.Equal(t, 1, res.Fixes)
	lines := obs.texts(rfd.EventLine)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " || hello"))
}
