package rfd

import (
	"crypto/md5"
	"encoding/hex"
)

// DigestSize 线上校验串长度（十六进制字符）
const DigestSize = 32

// Digest 计算块校验串：MD5 小写十六进制，与遥测端固件一致
func Digest(chunk []byte) string {
	sum := md5.Sum(chunk)
	return hex.EncodeToString(sum[:])
}

// VerifyChunk 比较对端校验串与本地计算结果
func VerifyChunk(token, chunk []byte) bool {
	return string(token) == Digest(chunk)
}
