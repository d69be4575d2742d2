package rfd

import (
	"fmt"
	"time"
)

// 应答字节
const (
	AckGeneric byte = 'A'
	AckChunk   byte = 'Y'
	NackChunk  byte = 'N'
	AckSync    byte = 'S'
	PingDone   byte = 'D'
)

// SyncMarker 重同步字面标记
const SyncMarker = "sync"

// Opcode 遥测端命令
type Opcode int

const (
	OpGetMostRecent Opcode = iota + 1
	OpListImages
	OpGetByName
	OpGetSettings
	OpSetSettings
	OpFlipHorizontal
	OpFlipVertical
	OpTimeSync
	OpPingTest
	OpRuntimeData
)

// AckPredicate 判断收到的字节是否为期望的应答
type AckPredicate func(b byte) bool

// AckByte 精确匹配单个字节
func AckByte(want byte) AckPredicate {
	return func(b byte) bool { return b == want }
}

// OpSpec 单个命令的线上行为：命令字节、应答判定、握手总期限（0 表示无限重试）
type OpSpec struct {
	Name     string
	Wire     byte
	Ack      AckPredicate
	Deadline time.Duration
}

// NameLength 按名取图时紧随握手写出的文件名长度
const NameLength = 15

var opTable = map[Opcode]OpSpec{
	OpGetMostRecent:  {Name: "get_most_recent", Wire: '1', Ack: AckByte(AckGeneric)},
	OpListImages:     {Name: "list_images", Wire: '2', Ack: AckByte(AckGeneric)},
	OpGetByName:      {Name: "get_by_name", Wire: '3', Ack: AckByte(AckGeneric)},
	OpGetSettings:    {Name: "get_settings", Wire: '4', Ack: AckByte(AckGeneric), Deadline: 10 * time.Second},
	OpSetSettings:    {Name: "set_settings", Wire: '5', Ack: AckByte(AckGeneric), Deadline: 10 * time.Second},
	OpFlipHorizontal: {Name: "flip_horizontal", Wire: '9', Ack: AckByte(AckGeneric), Deadline: 10 * time.Second},
	OpFlipVertical:   {Name: "flip_vertical", Wire: '0', Ack: AckByte(AckGeneric), Deadline: 10 * time.Second},
	OpTimeSync:       {Name: "time_sync", Wire: '8', Ack: AckByte(AckGeneric), Deadline: 20 * time.Second},
	OpPingTest:       {Name: "ping_test", Wire: '6', Ack: AckByte(AckGeneric), Deadline: 20 * time.Second},
	OpRuntimeData:    {Name: "runtime_data", Wire: '7', Ack: AckByte(AckGeneric), Deadline: 10 * time.Second},
}

// String 命令名
func (o Opcode) String() string {
	if s, ok := opTable[o]; ok {
		return s.Name
	}
	return fmt.Sprintf("opcode(%d)", int(o))
}

// Spec 返回命令在该固件配置下的线上行为
func (p Profile) Spec(op Opcode) (OpSpec, error) {
	s, ok := opTable[op]
	if !ok {
		return OpSpec{}, fmt.Errorf("unknown opcode %d", int(op))
	}
	if op == OpTimeSync {
		s.Wire = p.timeSyncByte()
	}
	return s, nil
}
