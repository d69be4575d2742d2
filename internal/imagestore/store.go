// Package imagestore 保存从电台接收的图像及链路附带的文本文件。
package imagestore

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

// ThumbDir 缩略图子目录
const ThumbDir = "thumbs"

// Store 图像目录
type Store struct {
	dir        string
	ext        string
	fallback   string
	thumbWidth uint
	logger     *zap.Logger
}

// Saved 保存结果
type Saved struct {
	Path      string `json:"path"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Bytes     int    `json:"bytes"`
	// Fallback 原文件名不可用或负载无法完整解码，已改存默认文件名
	Fallback bool `json:"fallback"`
	// DecodeError 负载解码错误（仍已保存可恢复部分）
	DecodeError string `json:"decodeError,omitempty"`
}

// New 创建图像目录
func New(cfg cfgpkg.LinkConfig, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:        cfg.ImageDir,
		ext:        cfg.Extension,
		fallback:   cfg.FallbackName,
		thumbWidth: cfg.ThumbnailWidth,
		logger:     logger,
	}
}

// Dir 图像目录
func (s *Store) Dir() string { return s.dir }

// Extension 图像扩展名
func (s *Store) Extension() string { return s.ext }

// FallbackName 默认文件名（含扩展名）
func (s *Store) FallbackName() string { return s.fallback + s.ext }

// SaveImage 解码 base64 负载并写入图像目录。
// 解码失败或文件名不可用时改存默认文件名；只有默认文件名也写不进去才返回 ErrFileSystem。
func (s *Store) SaveImage(name string, payload []byte) (Saved, error) {
	data, derr := rfd.DecodePayload(payload)
	out := Saved{Bytes: len(data)}
	if derr != nil {
		out.DecodeError = derr.Error()
		out.Fallback = true
		s.logger.Warn("image payload decode failed", zap.String("name", name), zap.Error(derr))
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return out, fmt.Errorf("%w: %v", rfd.ErrFileSystem, err)
	}

	if !out.Fallback && validName(name) {
		path := filepath.Join(s.dir, name)
		if err := os.WriteFile(path, data, 0o644); err == nil {
			out.Path = path
		} else {
			s.logger.Warn("image write failed, using fallback name", zap.String("path", path), zap.Error(err))
		}
	}
	if out.Path == "" {
		out.Fallback = true
		path := filepath.Join(s.dir, s.FallbackName())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return out, fmt.Errorf("%w: %v", rfd.ErrFileSystem, err)
		}
		out.Path = path
	}

	if s.thumbWidth > 0 {
		if thumb, err := s.Thumbnail(out.Path); err == nil {
			out.Thumbnail = thumb
		} else {
			// 部分图像经常无法解码，不影响保存结果
			s.logger.Debug("thumbnail skipped", zap.String("path", out.Path), zap.Error(err))
		}
	}
	return out, nil
}

// Thumbnail 生成等比缩放的 JPEG 缩略图
func (s *Store) Thumbnail(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	small := resize.Resize(s.thumbWidth, 0, img, resize.Lanczos3)

	dir := filepath.Join(s.dir, ThumbDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(dir, base+".jpg")
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// WriteText 写入链路附带的文本文件（设置、图像列表、运行数据）
func WriteText(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", rfd.ErrFileSystem, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", rfd.ErrFileSystem, err)
	}
	return nil
}

// Entry 目录中的已保存图像
type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// List 列出已保存图像，最新在前
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, "\x00<>:\"|?*\\/") {
		return false
	}
	return true
}
