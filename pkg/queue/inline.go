package queue

import (
	"context"
	"fmt"
	"sync"
)

// InlineQueue 进程内队列：任务在后台 goroutine 里直接执行，
// 不依赖 redis，是单实例部署和测试的默认选择。
type InlineQueue struct {
	mu      sync.RWMutex
	handler Handler
	sem     chan struct{}
	wg      sync.WaitGroup
}

// NewInlineQueue 创建进程内队列，concurrency 控制并发执行的任务数
func NewInlineQueue(concurrency int) *InlineQueue {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &InlineQueue{
		sem: make(chan struct{}, concurrency),
	}
}

// SetHandler 绑定任务处理函数，必须在 Enqueue 之前调用
func (q *InlineQueue) SetHandler(h Handler) {
	q.mu.Lock()
	q.handler = h
	q.mu.Unlock()
}

// Enqueue 启动一个 goroutine 执行任务。
// 用独立的 context：请求已返回，任务生命周期不随请求结束。
func (q *InlineQueue) Enqueue(ctx context.Context, task *Task) error {
	q.mu.RLock()
	handler := q.handler
	q.mu.RUnlock()

	if handler == nil {
		return fmt.Errorf("inline queue: no handler bound")
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.sem <- struct{}{}
		defer func() { <-q.sem }()

		// 处理函数自行上报失败，这里没有别的去处
		_ = handler(context.Background(), task)
	}()

	return nil
}

// Wait 等待所有在途任务结束
func (q *InlineQueue) Wait() {
	q.wg.Wait()
}

func (q *InlineQueue) Close() error {
	q.wg.Wait()
	return nil
}
