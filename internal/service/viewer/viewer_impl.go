package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/docview-dev/docview/internal/convert"
	"github.com/docview-dev/docview/internal/convert/pdf"
	"github.com/docview-dev/docview/internal/ingest"
	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/internal/session"
	"github.com/docview-dev/docview/internal/viewstate"
	"github.com/docview-dev/docview/pkg/logger"
	"github.com/docview-dev/docview/pkg/queue"
	"github.com/docview-dev/docview/pkg/storage"
)

// StagingPrefix 转换前暂存对象的 key 前缀。暂存对象在转换结束后删除，
// 会话中途消失等情况留下的孤儿由定期回收按该前缀清理。
const StagingPrefix = "staging/"

type ViewerSvc struct {
	registry *convert.Registry
	queue    queue.Queue
	storage  storage.Storage
	sessions *session.Manager
	logger   logger.Logger
	config   *ServiceConfig
}

type ServiceConfig struct {
	// MaxFileSize 单个文档的字节上限，0 表示不限
	MaxFileSize int64
}

func NewService(
	registry *convert.Registry,
	q queue.Queue,
	store storage.Storage,
	log logger.Logger,
	cfg *ServiceConfig,
) *ViewerSvc {
	if cfg == nil {
		cfg = &ServiceConfig{
			MaxFileSize: 50 * 1024 * 1024, // 50MB
		}
	}

	s := &ViewerSvc{
		registry: registry,
		queue:    q,
		storage:  store,
		logger:   log,
		config:   cfg,
	}
	s.sessions = session.NewManager(s.releaseHandle)
	return s
}

// releaseHandle 撤销 PDF 资源句柄：删除后备字节。
// 控制器保证每个句柄只走到这里一次。
func (s *ViewerSvc) releaseHandle(handle models.ResourceHandle) {
	if err := s.storage.Delete(context.Background(), pdf.ResourceKey(handle.ID)); err != nil {
		s.logger.Error("Failed to revoke pdf resource",
			logger.String("id", handle.ID),
			logger.Error(err),
		)
		return
	}
	s.logger.Debug("Revoked pdf resource", logger.String("id", handle.ID))
}

func (s *ViewerSvc) CreateSession() string {
	return s.sessions.Create()
}

func (s *ViewerSvc) RemoveSession(sessionID string) {
	s.sessions.Remove(sessionID)
}

// LoadUpload 处理上传文件
func (s *ViewerSvc) LoadUpload(
	ctx context.Context,
	sessionID string,
	file multipart.File,
	header *multipart.FileHeader,
) (*models.LoadTask, error) {
	ctrl := s.sessions.GetOrCreate(sessionID)

	if header != nil && s.config.MaxFileSize > 0 && header.Size > s.config.MaxFileSize {
		err := fmt.Errorf("file exceeds maximum size of %d bytes", s.config.MaxFileSize)
		s.failImmediately(ctrl, err)
		return nil, err
	}

	doc, err := ingest.FromUpload(file, header)
	if err != nil {
		// 未选文件不是错误，忽略且不改变视图状态
		if errors.Is(err, ingest.ErrEmptySelection) {
			return nil, err
		}
		s.failImmediately(ctrl, err)
		return nil, err
	}

	return s.startLoad(ctx, sessionID, ctrl, doc)
}

// LoadPayload 处理宿主消息里的 base64 载荷
func (s *ViewerSvc) LoadPayload(
	ctx context.Context,
	sessionID, fileType, fileName, fileData string,
) (*models.LoadTask, error) {
	ctrl := s.sessions.GetOrCreate(sessionID)

	doc, err := ingest.FromPayload(fileType, fileName, fileData)
	if err != nil {
		s.failImmediately(ctrl, err)
		return nil, err
	}

	if s.config.MaxFileSize > 0 && int64(len(doc.Data)) > s.config.MaxFileSize {
		err := fmt.Errorf("file exceeds maximum size of %d bytes", s.config.MaxFileSize)
		s.failImmediately(ctrl, err)
		return nil, err
	}

	return s.startLoad(ctx, sessionID, ctrl, doc)
}

// failImmediately 摄取阶段就失败的加载：直接进入 Error 态
func (s *ViewerSvc) failImmediately(ctrl *viewstate.Controller, err error) {
	token := ctrl.BeginLoad()
	ctrl.FailLoad(token, err.Error())
}

// startLoad 暂存字节并投递转换任务
func (s *ViewerSvc) startLoad(
	ctx context.Context,
	sessionID string,
	ctrl *viewstate.Controller,
	doc *models.SourceDocument,
) (*models.LoadTask, error) {
	taskID := uuid.New().String()
	token := ctrl.BeginLoad()

	stagingKey := StagingPrefix + taskID
	if _, err := s.storage.Store(ctx, bytes.NewReader(doc.Data), stagingKey); err != nil {
		ctrl.FailLoad(token, "failed to stage document")
		return nil, fmt.Errorf("failed to stage document: %w", err)
	}

	task := &queue.Task{
		ID:         taskID,
		Type:       queue.TaskTypeConvert,
		SessionID:  sessionID,
		Token:      token,
		DocType:    string(doc.Type),
		Filename:   doc.Name,
		Size:       int64(len(doc.Data)),
		StagingKey: stagingKey,
		CreatedAt:  time.Now(),
	}

	if err := s.queue.Enqueue(ctx, task); err != nil {
		if derr := s.storage.Delete(ctx, stagingKey); derr != nil {
			s.logger.Error("Failed to clean staging object",
				logger.String("key", stagingKey),
				logger.Error(derr),
			)
		}
		ctrl.FailLoad(token, "failed to queue conversion")
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.logger.Info("Load task created",
		logger.String("taskId", taskID),
		logger.String("sessionId", sessionID),
		logger.String("filename", doc.Name),
		logger.Uint64("token", token),
	)

	return &models.LoadTask{
		ID:        taskID,
		SessionID: sessionID,
		Token:     token,
		Type:      doc.Type,
		Filename:  doc.Name,
		FileSize:  task.Size,
		CreatedAt: task.CreatedAt,
	}, nil
}

func (s *ViewerSvc) State(sessionID string) (viewstate.Snapshot, error) {
	ctrl, ok := s.sessions.Get(sessionID)
	if !ok {
		return viewstate.Snapshot{}, ErrSessionNotFound
	}
	return ctrl.Snapshot(), nil
}

func (s *ViewerSvc) SelectSheet(sessionID string, index int) error {
	ctrl, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	// 越界与状态不符都是空操作，协议如此，不是错误
	ctrl.SelectSheet(index)
	return nil
}

func (s *ViewerSvc) Clear(sessionID string) error {
	ctrl, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	ctrl.Clear()
	return nil
}

func (s *ViewerSvc) OpenResource(ctx context.Context, resourceID string) (io.ReadCloser, error) {
	return s.storage.Get(ctx, pdf.ResourceKey(resourceID))
}

// HandleConvert 实现转换逻辑，由队列工作器调用。
// 源缓冲在转换结束后即释放；PDF 的字节已由直通器另存为资源对象。
func (s *ViewerSvc) HandleConvert(ctx context.Context, task *queue.Task) error {
	ctrl, ok := s.sessions.Get(task.SessionID)
	if !ok {
		// 会话已被删除，结果无处安放
		s.deleteStaging(ctx, task.StagingKey)
		return nil
	}
	defer s.deleteStaging(ctx, task.StagingKey)

	reader, err := s.storage.Get(ctx, task.StagingKey)
	if err != nil {
		ctrl.FailLoad(task.Token, "document data unavailable")
		return fmt.Errorf("failed to get staged document: %w", err)
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		ctrl.FailLoad(task.Token, "document data unavailable")
		return fmt.Errorf("failed to read staged document: %w", err)
	}

	normalizer, err := s.registry.Get(models.DocumentType(task.DocType))
	if err != nil {
		ctrl.FailLoad(task.Token, err.Error())
		return err
	}

	content, err := normalizer.Normalize(ctx, &models.SourceDocument{
		Data: data,
		Type: models.DocumentType(task.DocType),
		Name: task.Filename,
	})
	if err != nil {
		s.logger.Error("Conversion failed",
			logger.String("taskId", task.ID),
			logger.String("filename", task.Filename),
			logger.Error(err),
		)
		ctrl.FailLoad(task.Token, err.Error())
		// 不重试：用户可见的补救手段是换一个文件
		return nil
	}

	if !ctrl.CompleteLoad(task.Token, content) {
		s.logger.Info("Discarding stale conversion result",
			logger.String("taskId", task.ID),
			logger.Uint64("token", task.Token),
		)
	}
	return nil
}

func (s *ViewerSvc) deleteStaging(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to delete staging object",
			logger.String("key", key),
			logger.Error(err),
		)
	}
}
