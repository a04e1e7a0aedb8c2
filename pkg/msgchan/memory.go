package msgchan

import (
	"context"
	"sync"
)

// MemoryChannel 进程内通道，测试和同进程宿主使用
type MemoryChannel struct {
	msgs      chan Message
	readyOnce sync.Once
	mu        sync.Mutex
	announced bool
	closeOnce sync.Once
}

func NewMemoryChannel(buffer int) *MemoryChannel {
	if buffer <= 0 {
		buffer = 1
	}
	return &MemoryChannel{
		msgs: make(chan Message, buffer),
	}
}

// Send 投递一条入站消息
func (c *MemoryChannel) Send(msg Message) {
	c.msgs <- msg
}

// Receive implements Channel.Receive
func (c *MemoryChannel) Receive(ctx context.Context) (<-chan Message, error) {
	return c.msgs, nil
}

// AnnounceReady implements Channel.AnnounceReady
func (c *MemoryChannel) AnnounceReady(ctx context.Context) error {
	c.readyOnce.Do(func() {
		c.mu.Lock()
		c.announced = true
		c.mu.Unlock()
	})
	return nil
}

// Announced 返回是否已宣告就绪
func (c *MemoryChannel) Announced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.announced
}

func (c *MemoryChannel) Close() error {
	c.closeOnce.Do(func() {
		close(c.msgs)
	})
	return nil
}
