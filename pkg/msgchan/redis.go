package msgchan

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/docview-dev/docview/pkg/logger"
)

// Config 定义 redis 通道配置
type Config struct {
	Addr           string
	DB             int
	InboundChannel string
	ReadyChannel   string
}

// RedisChannel 通过 redis pub/sub 与宿主通信
type RedisChannel struct {
	client    *redis.Client
	inbound   string
	ready     string
	logger    logger.Logger
	readyOnce sync.Once
	sub       *redis.PubSub
}

func NewRedisChannel(cfg *Config, log logger.Logger) *RedisChannel {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	return &RedisChannel{
		client:  client,
		inbound: cfg.InboundChannel,
		ready:   cfg.ReadyChannel,
		logger:  log,
	}
}

// Receive implements Channel.Receive
func (c *RedisChannel) Receive(ctx context.Context) (<-chan Message, error) {
	c.sub = c.client.Subscribe(ctx, c.inbound)

	// 确认订阅建立，之后才宣告就绪才有意义
	if _, err := c.sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", c.inbound, err)
	}

	out := make(chan Message, 1)
	go func() {
		defer close(out)
		for m := range c.sub.Channel() {
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				c.logger.Warn("Dropping malformed host message",
					logger.Error(err),
				)
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// AnnounceReady implements Channel.AnnounceReady
func (c *RedisChannel) AnnounceReady(ctx context.Context) error {
	var err error
	c.readyOnce.Do(func() {
		payload, _ := json.Marshal(Message{Type: TypeViewerReady})
		err = c.client.Publish(ctx, c.ready, payload).Err()
	})
	return err
}

func (c *RedisChannel) Close() error {
	if c.sub != nil {
		if err := c.sub.Close(); err != nil {
			return err
		}
	}
	return c.client.Close()
}
