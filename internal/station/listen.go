package station

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// metersToFeet 高度换算系数
const metersToFeet = 3.2808

// GPSFix 监听模式收到的气球定位
type GPSFix struct {
	// FixTime 定位时刻 HH:MM:SS（整秒）
	FixTime  string    `json:"fixTime"`
	Seconds  float64   `json:"seconds"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	AltFeet  float64   `json:"altFeet"`
	Sats     int       `json:"sats"`
	Received time.Time `json:"received"`
}

// ParseGPS 解析 "GPS,h,m,s,lat,lon,alt,sats" 行，要求 "GPS," 之后恰为 7 个字段
func ParseGPS(line string) (GPSFix, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "GPS,") {
		return GPSFix{}, false
	}
	f := strings.Split(line[4:], ",")
	if len(f) != 7 {
		return GPSFix{}, false
	}
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}
	var nums [6]float64
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return GPSFix{}, false
		}
		nums[i] = v
	}
	sats, err := strconv.ParseFloat(f[6], 64)
	if err != nil {
		return GPSFix{}, false
	}
	return GPSFix{
		FixTime: f[0] + ":" + f[1] + ":" + strings.SplitN(f[2], ".", 2)[0],
		Seconds: nums[0]*3600 + nums[1]*60 + nums[2],
		Lat:     nums[3],
		Lon:     nums[4],
		AltFeet: nums[5] * metersToFeet,
		Sats:    int(sats),
	}, true
}

// ListenResult 监听统计
type ListenResult struct {
	Lines int `json:"lines"`
	Fixes int `json:"fixes"`
}

// listen 持续读取行直到被中断；中断是正常结束
func (s *Station) listen(ctx context.Context, eng *rfd.Engine) (ListenResult, error) {
	var out ListenResult
	for ctx.Err() == nil {
		line, err := eng.Transport().ReadLine()
		if err != nil {
			return out, err
		}
		text := strings.TrimRight(string(line), "\r\n")
		if text == "" {
			continue
		}
		out.Lines++
		if _, ok := s.payloadLine(ctx, eng, text, text); ok {
			out.Fixes++
		}
	}
	// 中断后丢弃电台仍在推送的数据
	if err := eng.Transport().FlushInput(); err != nil {
		s.logger.Debug("flush after listen failed", zap.Error(err))
	}
	return out, nil
}

// payloadLine 发布并记录一行载荷数据；gps 能解析为定位时一并发布和记录
func (s *Station) payloadLine(ctx context.Context, eng *rfd.Engine, text, gps string) (GPSFix, bool) {
	jobID := JobIDFrom(ctx)
	store := context.WithoutCancel(ctx)
	now := s.now()
	eng.Emit(rfd.Event{Kind: rfd.EventLine, Text: now.Format("15:04:05") + " || " + text})
	if s.listenLog != nil {
		if err := s.listenLog.RecordLine(store, jobID, now, text); err != nil {
			s.logger.Warn("record listen line failed", zap.Error(err))
		}
	}
	fix, ok := ParseGPS(gps)
	if !ok {
		return GPSFix{}, false
	}
	fix.Received = now
	eng.Emit(rfd.Event{Kind: rfd.EventGPS, Text: gps})
	if s.listenLog != nil {
		if err := s.listenLog.RecordFix(store, jobID, fix); err != nil {
			s.logger.Warn("record gps fix failed", zap.Error(err))
		}
	}
	return fix, true
}
