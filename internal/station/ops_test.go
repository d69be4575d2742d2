package station

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// ackThen 收到 opcode 后回 'A' 并推送 body
func ackThen(opcode byte, body string) func(l *scriptLink, p []byte) {
	return func(l *scriptLink, p []byte) {
		if len(p) == 1 && p[0] == opcode {
			l.push("A")
			if body != "" {
				l.push(body)
			}
		}
	}
}

func TestStationListImages(t *testing.T) {
	link := &scriptLink{respond: ackThen('2', "i170304_05a.jpg\ni170304_05b.jpg\n")}
	w, cfg := startWorker(t, openerFor(link), nil)

	info := submitAndWait(t, w, Request{Kind: KindListImages})
	require.Equal(t, JobSucceeded, info.State, info.Message)
	list := info.Result.(ImageList)
	assert.Equal(t, []string{"i170304_05a.jpg", "i170304_05b.jpg"}, list.Names)

	raw, err := os.ReadFile(cfg.ImageListFile)
	require.NoError(t, err)
	assert.Equal(t, "i170304_05a.jpg\ni170304_05b.jpg\n", string(raw))
}

func TestStationSettings(t *testing.T) {
	t.Run("读取并落盘", func(t *testing.T) {
		link := &scriptLink{respond: ackThen('4', "800\n600\n10\n55\n-5\n3\n200\n\r")}
		w, cfg := startWorker(t, openerFor(link), nil)

		info := submitAndWait(t, w, Request{Kind: KindGetSettings})
		require.Equal(t, JobSucceeded, info.State, info.Message)
		got := info.Result.(rfd.CameraSettings)
		assert.Equal(t, rfd.CameraSettings{Width: 800, Height: 600, Sharpness: 10, Brightness: 55, Contrast: -5, Saturation: 3, ISO: 200}, got)
		assert.FileExists(t, cfg.SettingsFile)
	})

	t.Run("下发等待确认", func(t *testing.T) {
		link := &scriptLink{}
		lines := 0
		link.respond = func(l *scriptLink, p []byte) {
			switch {
			case string(p) == "5":
				l.push("A")
			case len(p) > 0 && p[len(p)-1] == '\n':
				lines++
				if lines == 7 {
					l.push("A")
				}
			}
		}
		w, cfg := startWorker(t, openerFor(link), nil)

		s := rfd.DefaultCameraSettings()
		info := submitAndWait(t, w, Request{Kind: KindSetSettings, Settings: &s})
		require.Equal(t, JobSucceeded, info.State, info.Message)
		assert.Equal(t, "5650\n450\n0\n50\n0\n0\n400\n", link.written())

		raw, err := os.ReadFile(cfg.SettingsFile)
		require.NoError(t, err)
		assert.Equal(t, string(s.Text()), string(raw))
	})
}

func TestStationFlip(t *testing.T) {
	link := &scriptLink{respond: ackThen('0', "")}
	obs := &eventLog{}
	w, _ := startWorker(t, openerFor(link), obs)

	info := submitAndWait(t, w, Request{Kind: KindFlipVertical})
	require.Equal(t, JobSucceeded, info.State, info.Message)
	assert.Equal(t, "0", link.written())
	assert.Contains(t, obs.texts(rfd.EventStatus), "Camera flip vertical acknowledged")
}

func TestStationRuntimeData(t *testing.T) {
	link := &scriptLink{respond: ackThen('7', "uptime 42\ntemp 31C\n\r")}
	w, cfg := startWorker(t, openerFor(link), nil)

	info := submitAndWait(t, w, Request{Kind: KindRuntimeData})
	require.Equal(t, JobSucceeded, info.State, info.Message)
	data := info.Result.(RuntimeData)
	assert.Equal(t, []string{"uptime 42", "temp 31C"}, data.Lines)
	assert.FileExists(t, cfg.RuntimeDataFile)
}

func TestStationCommand(t *testing.T) {
	link := &scriptLink{}
	sends := 0
	link.respond = func(l *scriptLink, p []byte) {
		if string(p) != "C?reboot!" {
			return
		}
		sends++
		if sends == 1 {
			l.push("noise\n")
			return
		}
		l.push("C\nC;rebooting!\n")
	}
	w, _ := startWorker(t, openerFor(link), nil)

	info := submitAndWait(t, w, Request{Kind: KindCommand, Identifier: "C", Command: "reboot"})
	require.Equal(t, JobSucceeded, info.State, info.Message)
	res := info.Result.(CommandResult)
	assert.True(t, res.Acknowledged)
	assert.Equal(t, "C;rebooting!", res.Response)
	assert.Nil(t, res.GPS)
	assert.Equal(t, 2, sends)
}

func TestStationCommandResponseIsPayload(t *testing.T) {
	link := &scriptLink{}
	link.respond = func(l *scriptLink, p []byte) {
		if string(p) == "B?gps!" {
			l.push("B\nB;GPS,12,30,05,40.1,-105.2,1500,7!\n")
		}
	}
	obs := &eventLog{}
	rec := &memListenLog{}
	w, _ := startWorker(t, openerFor(link), obs, WithListenRecorder(rec))

	info := submitAndWait(t, w, Request{Kind: KindCommand, Identifier: "B", Command: "gps"})
	require.Equal(t, JobSucceeded, info.State, info.Message)
	res := info.Result.(CommandResult)
	require.NotNil(t, res.GPS)
	assert.Equal(t, "12:30:05", res.GPS.FixTime)
	assert.InDelta(t, 40.1, res.GPS.Lat, 1e-9)
	assert.Equal(t, 7, res.GPS.Sats)

	// 回复与监听行走同一条记录路径
	rec.mu.Lock()
	assert.Equal(t, []string{"B;GPS,12,30,05,40.1,-105.2,1500,7!"}, rec.lines)
	assert.Equal(t, []string{info.ID}, rec.jobs)
	require.Len(t, rec.fixes, 1)
	rec.mu.Unlock()

	lines := obs.texts(rfd.EventLine)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], " || B;GPS,")
	assert.Equal(t, []string{"GPS,12,30,05,40.1,-105.2,1500,7"}, obs.texts(rfd.EventGPS))
}

func TestResponseBody(t *testing.T) {
	assert.Equal(t, "GPS,1,2,3", responseBody("B;GPS,1,2,3!"))
	assert.Equal(t, "a;b", responseBody("B;a;b!"))
	assert.Equal(t, "", responseBody("B!"))
}
