package msgchan

import (
	"context"

	"github.com/docview-dev/docview/pkg/logger"
)

// HandlerFunc 处理一条入站的 FILE_DATA 消息
type HandlerFunc func(ctx context.Context, msg Message) error

// Listener 消费通道消息并交给处理函数。
// 先订阅再宣告就绪，宿主收到 VIEWER_READY 时通道已经可收。
type Listener struct {
	ch     Channel
	handle HandlerFunc
	logger logger.Logger
}

func NewListener(ch Channel, handle HandlerFunc, log logger.Logger) *Listener {
	return &Listener{
		ch:     ch,
		handle: handle,
		logger: log,
	}
}

// Run 阻塞消费消息，直到 ctx 取消或通道关闭
func (l *Listener) Run(ctx context.Context) error {
	msgs, err := l.ch.Receive(ctx)
	if err != nil {
		return err
	}

	if err := l.ch.AnnounceReady(ctx); err != nil {
		l.logger.Warn("Failed to announce viewer ready", logger.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if msg.Type != TypeFileData {
				l.logger.Debug("Ignoring host message",
					logger.String("type", msg.Type),
				)
				continue
			}
			// 加载失败已经反映在视图状态里，这里只记录
			if err := l.handle(ctx, msg); err != nil {
				l.logger.Error("Failed to handle file data message",
					logger.String("fileName", msg.FileName),
					logger.Error(err),
				)
			}
		}
	}
}
