package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EventStream 链路事件流：PUBLISH 给实时订阅者，同时保留最近 N 条到列表
type EventStream struct {
	client  *Client
	channel string
	key     string
	max     int64
}

// NewEventStream 创建事件流
func NewEventStream(client *Client, channel, recentKey string, recentMax int64) *EventStream {
	if recentMax <= 0 {
		recentMax = 500
	}
	return &EventStream{client: client, channel: channel, key: recentKey, max: recentMax}
}

// Channel 发布频道
func (s *EventStream) Channel() string { return s.channel }

// Append 发布并写入最近列表（一个 pipeline）
func (s *EventStream) Append(ctx context.Context, payload []byte) error {
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Publish(ctx, s.channel, payload)
		p.LPush(ctx, s.key, payload)
		p.LTrim(ctx, s.key, 0, s.max-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Recent 读取最近 n 条，按时间正序解码到 out
func (s *EventStream) Recent(ctx context.Context, n int64, out any) error {
	if n <= 0 || n > s.max {
		n = s.max
	}
	items, err := s.client.LRange(ctx, s.key, 0, n-1).Result()
	if err != nil {
		return fmt.Errorf("read recent events: %w", err)
	}
	return decodeNewestFirst(items, out)
}

// Subscribe 订阅实时事件
func (s *EventStream) Subscribe(ctx context.Context) *redis.PubSub {
	return s.client.Subscribe(ctx, s.channel)
}

// decodeNewestFirst 列表头是最新事件，反转后拼成 JSON 数组解码
func decodeNewestFirst(items []string, out any) error {
	buf := []byte{'['}
	for i := len(items) - 1; i >= 0; i-- {
		buf = append(buf, items[i]...)
		if i > 0 {
			buf = append(buf, ',')
		}
	}
	buf = append(buf, ']')
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("decode recent events: %w", err)
	}
	return nil
}
