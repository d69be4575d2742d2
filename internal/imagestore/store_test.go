package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

func newTestStore(t *testing.T, thumb uint) *Store {
	t.Helper()
	return New(cfgpkg.LinkConfig{
		ImageDir:       filepath.Join(t.TempDir(), "Images"),
		Extension:      ".jpg",
		FallbackName:   "newimage",
		ThumbnailWidth: thumb,
	}, nil)
}

func sampleJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestSaveImage(t *testing.T) {
	t.Run("正常保存并生成缩略图", func(t *testing.T) {
		s := newTestStore(t, 16)
		raw := sampleJPEG(t)
		saved, err := s.SaveImage("image_001.jpg", rfd.EncodePayload(raw))
		require.NoError(t, err)
		assert.False(t, saved.Fallback)
		assert.Equal(t, filepath.Join(s.Dir(), "image_001.jpg"), saved.Path)

		got, err := os.ReadFile(saved.Path)
		require.NoError(t, err)
		assert.Equal(t, raw, got)

		require.NotEmpty(t, saved.Thumbnail)
		f, err := os.Open(saved.Thumbnail)
		require.NoError(t, err)
		defer f.Close()
		cfg, err := jpeg.DecodeConfig(f)
		require.NoError(t, err)
		assert.Equal(t, 16, cfg.Width)
		assert.Equal(t, 12, cfg.Height)
	})

	t.Run("非法文件名改存默认名", func(t *testing.T) {
		s := newTestStore(t, 0)
		saved, err := s.SaveImage("../escape.jpg", rfd.EncodePayload([]byte("abc")))
		require.NoError(t, err)
		assert.True(t, saved.Fallback)
		assert.Equal(t, filepath.Join(s.Dir(), "newimage.jpg"), saved.Path)
	})

	t.Run("解码失败仍保存可恢复部分", func(t *testing.T) {
		s := newTestStore(t, 0)
		enc := rfd.EncodePayload([]byte("partial image bytes"))
		saved, err := s.SaveImage("image_002.jpg", enc[:len(enc)-2])
		require.NoError(t, err)
		assert.True(t, saved.Fallback)
		assert.NotEmpty(t, saved.DecodeError)
		assert.FileExists(t, saved.Path)
	})
}

func TestList(t *testing.T) {
	s := newTestStore(t, 0)
	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = s.SaveImage("a.jpg", rfd.EncodePayload([]byte("a")))
	require.NoError(t, err)
	entries, err = s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.jpg", entries[0].Name)
}

func TestLatestImageName(t *testing.T) {
	now := time.Date(2017, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "launch.jpg", LatestImageName("launch", "i1234567890b.jp", ".jpg", now))
	assert.Equal(t, "i1234567890b.jp", LatestImageName("", "i1234567890b.jp", ".jpg", now))
	assert.Equal(t, "image_20170304_T050607.jpg", LatestImageName("", "xyz", ".jpg", now))
	assert.Equal(t, "image_20170304_T050607.jpg", LatestImageName("", "", ".jpg", now))
}

func TestIsHighRes(t *testing.T) {
	assert.False(t, IsHighRes("i170304_05b.jpg"))
	assert.True(t, IsHighRes("i170304_05a.jpg"))
	assert.True(t, IsHighRes("short"))
}

func TestPadName(t *testing.T) {
	assert.Equal(t, []byte("abc            "), PadName("abc", 15))
	assert.Equal(t, []byte("0123456789abcde"), PadName("0123456789abcdefgh", 15))
}
