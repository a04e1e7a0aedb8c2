package worker

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/docview-dev/docview/pkg/logger"
)

type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

type Config struct {
	RedisAddr   string
	RedisDB     int
	Concurrency int
}

type BaseWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger logger.Logger
}

func (w *BaseWorker) Stop() error {
	w.server.Stop()
	w.server.Shutdown()
	return nil
}
