package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// QueueConfig 定义队列配置
type QueueConfig struct {
	RedisAddr string
	RedisDB   int
}

// AsynqQueue redis 后端的任务队列，配合 pkg/worker 的 asynq 服务端消费
type AsynqQueue struct {
	client *asynq.Client
}

// NewAsynqQueue 创建队列实例
func NewAsynqQueue(cfg *QueueConfig) *AsynqQueue {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	}
	return &AsynqQueue{
		client: asynq.NewClient(redisOpt),
	}
}

// Enqueue 将任务加入队列。
// 不自动重试：失败交给用户换文件重来；不设超时：转换没有可取消点，
// 超大文档允许无限期处于加载中。
func (q *AsynqQueue) Enqueue(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	t := asynq.NewTask(task.Type, payload,
		asynq.TaskID(task.ID),
		asynq.MaxRetry(0),
	)

	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

func (q *AsynqQueue) Close() error {
	return q.client.Close()
}
