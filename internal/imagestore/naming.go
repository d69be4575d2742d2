package imagestore

import (
	"strings"
	"time"
)

// LatestImageName 决定“最新图像”的保存文件名：
// 操作员指定名称优先（追加扩展名）；否则发送端文件名以 'i' 开头时沿用；否则按时间戳命名。
func LatestImageName(operator, sender, ext string, now time.Time) string {
	if operator = strings.TrimSpace(operator); operator != "" {
		return operator + ext
	}
	if sender = strings.TrimSpace(strings.Trim(sender, "\x00")); strings.HasPrefix(sender, "i") {
		return sender
	}
	return "image_" + now.Format("20060102_T150405") + ext
}

// IsHighRes 图像名第 11 个字符不是 'b' 即为高分辨率原图
func IsHighRes(name string) bool {
	return len(name) < 11 || name[10] != 'b'
}

// PadName 将请求的文件名补齐/截断为定长线上字段
func PadName(name string, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = ' '
	}
	copy(out, name)
	return out
}
