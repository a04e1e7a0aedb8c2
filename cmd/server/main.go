package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/docview-dev/docview/api/handlers"
	"github.com/docview-dev/docview/api/routes"
	"github.com/docview-dev/docview/config"
	"github.com/docview-dev/docview/internal/convert"
	"github.com/docview-dev/docview/internal/service/viewer"
	"github.com/docview-dev/docview/internal/session"
	"github.com/docview-dev/docview/pkg/logger"
	"github.com/docview-dev/docview/pkg/msgchan"
	"github.com/docview-dev/docview/pkg/queue"
	"github.com/docview-dev/docview/pkg/storage"
	"github.com/docview-dev/docview/pkg/worker"
)

func main() {
	// init logger
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/docview.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.GetViewerConfig()

	// init storage
	store, err := storage.NewStorage(storage.StorageType(cfg.StorageType), log)
	if err != nil {
		log.Fatal("Failed to init storage:", logger.Error(err))
	}

	// init conversion registry
	registry := convert.NewRegistry(store, log, &convert.Options{
		ImageMaxWidth: cfg.ImageMaxWidth,
	})

	// init queue
	var (
		q      queue.Queue
		inline *queue.InlineQueue
	)
	switch cfg.QueueType {
	case "asynq":
		redisCfg := config.GetRedisConfig()
		q = queue.NewAsynqQueue(&queue.QueueConfig{
			RedisAddr: redisCfg.Addr,
			RedisDB:   redisCfg.DB,
		})
	default:
		inline = queue.NewInlineQueue(cfg.Concurrency)
		q = inline
	}
	defer q.Close()

	// init viewer service
	svc := viewer.NewService(registry, q, store, log, &viewer.ServiceConfig{
		MaxFileSize: cfg.MaxFileSize,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 转换工作器必须与 API 同进程：结果要写回进程内的视图状态
	if inline != nil {
		inline.SetHandler(svc.HandleConvert)
	} else {
		redisCfg := config.GetRedisConfig()
		convertWorker := worker.NewConvertWorker(&worker.Config{
			RedisAddr:   redisCfg.Addr,
			RedisDB:     redisCfg.DB,
			Concurrency: cfg.Concurrency,
		}, svc.HandleConvert, log)
		if err := convertWorker.Start(ctx); err != nil {
			log.Fatal("Failed to start convert worker:", logger.Error(err))
		}
	}

	// init handlers
	h := handlers.NewHandlers(svc, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	// 定期回收孤儿暂存对象。正常路径在转换后即删，这里兜底
	// 会话中途消失或进程曾经异常留下的残留；资源对象不在回收范围内
	g.Go(func() error {
		ticker := time.NewTicker(cfg.StagingSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				threshold := time.Now().Add(-cfg.StagingTTL)
				if err := store.CleanupBefore(gctx, viewer.StagingPrefix, threshold); err != nil {
					log.Error("Staging cleanup failed", logger.Error(err))
				}
			}
		}
	})

	g.Go(func() error {
		log.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 嵌入模式：监听宿主消息通道，订阅成功后宣告就绪
	if cfg.EmbeddedMode {
		redisCfg := config.GetRedisConfig()
		channel := msgchan.NewRedisChannel(&msgchan.Config{
			Addr:           redisCfg.Addr,
			DB:             redisCfg.DB,
			InboundChannel: redisCfg.InboundChannel,
			ReadyChannel:   redisCfg.ReadyChannel,
		}, log)
		defer channel.Close()

		listener := msgchan.NewListener(channel, func(mctx context.Context, msg msgchan.Message) error {
			_, err := svc.LoadPayload(mctx, session.DefaultID, msg.FileType, msg.FileName, msg.FileData)
			return err
		}, log)

		g.Go(func() error {
			if err := listener.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		log.Info("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown:", logger.Error(err))
		}

		if inline != nil {
			// 等在途转换落地，避免丢任务
			inline.Wait()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server error:", logger.Error(err))
	}
}
