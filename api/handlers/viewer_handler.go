package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docview-dev/docview/internal/ingest"
	"github.com/docview-dev/docview/internal/service/viewer"
	"github.com/docview-dev/docview/pkg/logger"
	"github.com/docview-dev/docview/pkg/msgchan"
)

type ViewerHandler struct {
	service viewer.ViewerService
	logger  logger.Logger
}

func NewViewerHandler(service viewer.ViewerService, logger logger.Logger) *ViewerHandler {
	return &ViewerHandler{
		service: service,
		logger:  logger,
	}
}

// LoadDocument 接收上传文件并开始加载
// POST /api/v1/documents
func (h *ViewerHandler) LoadDocument(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		sessionID = h.service.CreateSession()
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	if file != nil {
		defer file.Close()
	}

	task, err := h.service.LoadUpload(c.Request.Context(), sessionID, file, header)
	if err != nil {
		// 未选择文件：什么都不发生，当前视图保持原样
		if errors.Is(err, ingest.ErrEmptySelection) {
			c.JSON(http.StatusOK, gin.H{
				"session_id": sessionID,
				"ignored":    true,
			})
			return
		}
		h.logger.Error("Failed to load document",
			logger.String("sessionId", sessionID),
			logger.Error(err),
		)
		// 加载失败已反映在视图状态里，客户端轮询 state 即可
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"session_id": sessionID,
		"task_id":    task.ID,
		"token":      task.Token,
		"type":       task.Type,
		"filename":   task.Filename,
	})
}

// GetState 返回会话当前视图状态快照
// GET /api/v1/sessions/:sessionId/state
func (h *ViewerHandler) GetState(c *gin.Context) {
	sessionID := c.Param("sessionId")

	snapshot, err := h.service.State(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// SelectSheet 切换工作表
// PUT /api/v1/sessions/:sessionId/sheet
func (h *ViewerHandler) SelectSheet(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.SelectSheet(sessionID, req.Index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	snapshot, _ := h.service.State(sessionID)
	c.JSON(http.StatusOK, snapshot)
}

// ClearSession 清空会话视图，回到空闲态。会话本身保留，
// 之后的状态查询能看到 Idle 快照
// DELETE /api/v1/sessions/:sessionId/content
func (h *ViewerHandler) ClearSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	if err := h.service.Clear(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	snapshot, _ := h.service.State(sessionID)
	c.JSON(http.StatusOK, snapshot)
}

// RemoveSession 删除整个会话并释放资源
// DELETE /api/v1/sessions/:sessionId
func (h *ViewerHandler) RemoveSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	if _, err := h.service.State(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	h.service.RemoveSession(sessionID)
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// GetResource 流式返回 PDF 资源字节
// GET /api/v1/resources/:resourceId
func (h *ViewerHandler) GetResource(c *gin.Context) {
	resourceID := c.Param("resourceId")

	reader, err := h.service.OpenResource(c.Request.Context(), resourceID)
	if err != nil {
		// 句柄已被撤销或从未存在
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Error("Failed to stream resource",
			logger.String("resourceId", resourceID),
			logger.Error(err),
		)
	}
}

// PostMessage 接收宿主消息（与消息通道同构的 HTTP 入口）
// POST /api/v1/messages
func (h *ViewerHandler) PostMessage(c *gin.Context) {
	var msg msgchan.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if msg.Type != msgchan.TypeFileData {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported message type"})
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = h.service.CreateSession()
	}

	task, err := h.service.LoadPayload(c.Request.Context(), sessionID, msg.FileType, msg.FileName, msg.FileData)
	if err != nil {
		h.logger.Error("Failed to load document from message",
			logger.String("sessionId", sessionID),
			logger.Error(err),
		)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"session_id": sessionID,
		"task_id":    task.ID,
		"token":      task.Token,
	})
}

// HealthCheck 健康检查
// GET /api/v1/health
func (h *ViewerHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
