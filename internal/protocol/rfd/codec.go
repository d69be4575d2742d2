package rfd

import (
	"encoding/base64"
	"fmt"
)

// DecodePayload 将累积的 base64 负载解码为二进制图像。
// 非字母表字符（换行、噪声）先被剔除；无法整体解码时返回可解码的前缀与 ErrDecode。
func DecodePayload(payload []byte) ([]byte, error) {
	clean := make([]byte, 0, len(payload))
	for _, b := range payload {
		if isBase64Char(b) {
			clean = append(clean, b)
		}
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(out, clean)
	if err == nil {
		return out[:n], nil
	}
	// 截断到完整的 4 字符组，保留能恢复的部分
	whole := clean[:len(clean)-len(clean)%4]
	n, _ = base64.StdEncoding.Decode(out, whole)
	return out[:n], fmt.Errorf("%w: %v", ErrDecode, err)
}

// EncodePayload 编码为线上 base64 文本
func EncodePayload(data []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out
}

func isBase64Char(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '+' || b == '/' || b == '=':
		return true
	}
	return false
}
