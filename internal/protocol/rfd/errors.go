package rfd

import "errors"

// 链路错误分类，调用方使用 errors.Is 判断
var (
	// ErrTransportTimeout 读写在期限内没有数据
	ErrTransportTimeout = errors.New("rfd: transport timeout")
	// ErrChecksumMismatch 块校验失败
	ErrChecksumMismatch = errors.New("rfd: checksum mismatch")
	// ErrConnection 有期限的操作在期限内未收到应答
	ErrConnection = errors.New("rfd: no acknowledge received, connection error")
	// ErrDecode 负载不是合法的 base64
	ErrDecode = errors.New("rfd: payload decode failure")
	// ErrFileSystem 结果文件无法写入
	ErrFileSystem = errors.New("rfd: file system error")
	// ErrInterrupted 操作被协作式中断
	ErrInterrupted = errors.New("rfd: interrupted")
)
