package station

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/imagestore"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// ImageResult 取图结果
type ImageResult struct {
	Saved    imagestore.Saved    `json:"saved"`
	Session  rfd.TransferSession `json:"session"`
	Duration float64             `json:"durationSeconds"`
}

// latestImage 取回遥测端最新图像。握手无期限，握手后先读 15 字节发送端文件名。
func (s *Station) latestImage(ctx context.Context, eng *rfd.Engine, operatorName string) (Outcome, error) {
	if err := eng.SendUntilAcknowledged(ctx, rfd.OpGetMostRecent); err != nil {
		return Outcome{}, err
	}
	sender, err := eng.ReadN(rfd.NameLength)
	if err != nil {
		return Outcome{}, err
	}
	name := imagestore.LatestImageName(operatorName, string(sender), s.store.Extension(), s.now())
	eng.Status("Image will be saved as: %s", name)
	return s.receive(ctx, eng, KindLatestImage, name)
}

// imageByName 按名取图；高分辨率原图未确认时直接拒绝，不占用链路
func (s *Station) imageByName(ctx context.Context, eng *rfd.Engine, name string, confirm bool) (Outcome, error) {
	if imagestore.IsHighRes(name) && !confirm {
		eng.Status("WARNING! You have selected a high resolution image!")
		return Outcome{}, ErrHighResNotConfirmed
	}
	if err := eng.SendUntilAcknowledged(ctx, rfd.OpGetByName); err != nil {
		return Outcome{}, err
	}
	if err := eng.Write(imagestore.PadName(name, rfd.NameLength)); err != nil {
		return Outcome{}, err
	}
	saveName := strings.TrimSpace(name)
	eng.Status("Image will be saved as: %s", saveName)
	return s.receive(ctx, eng, KindImageByName, saveName)
}

func (s *Station) receive(ctx context.Context, eng *rfd.Engine, kind Kind, name string) (Outcome, error) {
	start := s.now()
	res, rerr := eng.ReceiveImage(ctx, name)
	if len(res.Payload) == 0 {
		if rerr != nil {
			return Outcome{Result: ImageResult{Session: res.Session}, Partial: true}, rerr
		}
		eng.Status("No image data received")
		return Outcome{Result: ImageResult{Session: res.Session}}, fmt.Errorf("%w: no image data received", rfd.ErrConnection)
	}

	saved, err := s.store.SaveImage(name, res.Payload)
	if err != nil {
		eng.Status("Error saving image: %v", err)
		return Outcome{Result: ImageResult{Session: res.Session}, Partial: true}, err
	}
	if saved.Fallback {
		eng.Status("Error with filename, saved as %s", s.store.FallbackName())
	}
	elapsed := s.now().Sub(start)
	eng.Status("Receive Time = %.2f", elapsed.Seconds())

	s.logger.Info("image saved",
		zap.String("path", saved.Path),
		zap.Int("bytes", saved.Bytes),
		zap.Int("resyncs", res.Session.Resyncs),
		zap.Bool("partial", res.Session.Partial),
		zap.Bool("fallback", saved.Fallback),
	)
	if s.transfers != nil {
		rec := TransferRecord{
			JobID:        JobIDFrom(ctx),
			Kind:         kind,
			Name:         name,
			Path:         saved.Path,
			ImageBytes:   saved.Bytes,
			PayloadBytes: res.Session.BytesReceived,
			TotalSize:    res.Session.TotalSize,
			Chunks:       res.Session.Chunks,
			Resyncs:      res.Session.Resyncs,
			WordLength:   res.Session.WordLength,
			Partial:      res.Session.Partial,
			Fallback:     saved.Fallback,
			StartedAt:    start,
			FinishedAt:   start.Add(elapsed),
		}
		// 记录失败不影响已保存的图像
		if err := s.transfers.RecordTransfer(context.WithoutCancel(ctx), rec); err != nil {
			s.logger.Warn("record transfer failed", zap.Error(err))
		}
	}

	return Outcome{
		Result:  ImageResult{Saved: saved, Session: res.Session, Duration: elapsed.Seconds()},
		Partial: res.Session.Partial,
	}, rerr
}

// ImageList 遥测端图像列表
type ImageList struct {
	Names []string `json:"names"`
	File  string   `json:"file"`
}

// listImages 握手后逐行读取 imagedata.txt，直到一次空读
func (s *Station) listImages(ctx context.Context, eng *rfd.Engine) (ImageList, error) {
	out := ImageList{File: s.link.ImageListFile}
	if err := eng.SendUntilAcknowledged(ctx, rfd.OpListImages); err != nil {
		return out, err
	}
	var raw strings.Builder
	for {
		if ctx.Err() != nil {
			return out, rfd.ErrInterrupted
		}
		line, err := eng.ReadLine()
		if err != nil {
			return out, err
		}
		if len(line) == 0 {
			break
		}
		raw.Write(line)
		if name := strings.TrimSpace(string(line)); name != "" {
			out.Names = append(out.Names, name)
		}
	}
	if err := imagestore.WriteText(s.link.ImageListFile, []byte(raw.String())); err != nil {
		eng.Status("Error with Opening File")
		return out, err
	}
	eng.Status("Received %d image names", len(out.Names))
	return out, nil
}

// elapsedSince 便于测试替换时钟
func (s *Station) elapsedSince(t time.Time) time.Duration { return s.now().Sub(t) }
