package rfd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"空块", "", "d41d8cd98f00b204e9800998ecf8427e"},
		{"短文本", "hello", "5d41402abc4b2a76b9719d911017c592"},
		{"base64 块", "/9j/4AAQSkZJRgABAQ==", Digest([]byte("/9j/4AAQSkZJRgABAQ=="))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Digest([]byte(tt.in))
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, DigestSize)
			assert.True(t, VerifyChunk([]byte(got), []byte(tt.in)))
		})
	}

	assert.False(t, VerifyChunk([]byte("d41d8cd98f00b204e9800998ecf8427E"), nil), "comparison is case-sensitive")
	assert.False(t, VerifyChunk(nil, []byte("x")))
}

func TestDecodePayload(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	t.Run("带换行与噪声仍可解码", func(t *testing.T) {
		enc := EncodePayload(img)
		noisy := append([]byte("\r\n"), enc[:4]...)
		noisy = append(noisy, '\n')
		noisy = append(noisy, enc[4:]...)
		got, err := DecodePayload(noisy)
		require.NoError(t, err)
		assert.Equal(t, img, got)
	})

	t.Run("截断负载返回可恢复前缀", func(t *testing.T) {
		enc := EncodePayload(img)
		got, err := DecodePayload(enc[:len(enc)-3])
		require.ErrorIs(t, err, ErrDecode)
		assert.Equal(t, img[:len(got)], got)
		assert.NotEmpty(t, got)
	})
}
