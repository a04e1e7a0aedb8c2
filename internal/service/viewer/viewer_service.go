package viewer

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/internal/viewstate"
	"github.com/docview-dev/docview/pkg/queue"
)

// ErrSessionNotFound 会话不存在
var ErrSessionNotFound = errors.New("session not found")

// ViewerService 查看器编排：接收文档、投递转换、维护会话视图状态
type ViewerService interface {
	// CreateSession 新建查看会话
	CreateSession() string
	// RemoveSession 删除会话并释放其资源
	RemoveSession(sessionID string)
	// LoadUpload 从上传文件开始一次加载
	LoadUpload(ctx context.Context, sessionID string, file multipart.File, header *multipart.FileHeader) (*models.LoadTask, error)
	// LoadPayload 从宿主消息载荷开始一次加载
	LoadPayload(ctx context.Context, sessionID, fileType, fileName, fileData string) (*models.LoadTask, error)
	// State 读取会话的视图状态快照
	State(sessionID string) (viewstate.Snapshot, error)
	// SelectSheet 切换选中的表
	SelectSheet(sessionID string, index int) error
	// Clear 清空会话视图
	Clear(sessionID string) error
	// OpenResource 读取 PDF 资源句柄的后备字节
	OpenResource(ctx context.Context, resourceID string) (io.ReadCloser, error)
	// HandleConvert 工作器入口：执行一个转换任务并回写结果
	HandleConvert(ctx context.Context, task *queue.Task) error
}
