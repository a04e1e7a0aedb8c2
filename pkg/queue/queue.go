package queue

import (
	"context"
	"time"
)

// TaskTypeConvert 文档转换任务
const TaskTypeConvert = "document:convert"

// Task 一次转换任务。令牌由视图状态控制器在加载开始时发放，
// 转换结果回写时校验令牌，过期结果被丢弃。
type Task struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SessionID  string    `json:"sessionId"`
	Token      uint64    `json:"token"`
	DocType    string    `json:"docType"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	StagingKey string    `json:"stagingKey"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Handler 处理一个已入队的任务
type Handler func(ctx context.Context, task *Task) error

// Queue 转换任务队列接口
type Queue interface {
	Enqueue(ctx context.Context, task *Task) error
	Close() error
}
