package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/docview-dev/docview/pkg/logger"
	"github.com/docview-dev/docview/pkg/queue"
)

// ConvertWorker 消费转换任务的 asynq 服务端。
// 必须与 API 进程同进程运行：转换结果要写回进程内的视图状态。
type ConvertWorker struct {
	BaseWorker
	handler queue.Handler
}

func NewConvertWorker(cfg *Config, handler queue.Handler, log logger.Logger) *ConvertWorker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
		},
	)

	w := &ConvertWorker{
		BaseWorker: BaseWorker{
			server: server,
			mux:    asynq.NewServeMux(),
			logger: log,
		},
		handler: handler,
	}

	w.mux.HandleFunc(queue.TaskTypeConvert, w.handleConvert)
	return w
}

func (w *ConvertWorker) handleConvert(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	if task.ID == "" || task.SessionID == "" || task.StagingKey == "" {
		return fmt.Errorf("invalid task data: missing required fields")
	}

	w.logger.Info("Processing convert task",
		logger.String("taskId", task.ID),
		logger.String("sessionId", task.SessionID),
		logger.String("filename", task.Filename),
	)

	return w.handler(ctx, &task)
}

func (w *ConvertWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
