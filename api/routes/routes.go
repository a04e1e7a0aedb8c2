package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/docview-dev/docview/api/handlers"
	"github.com/docview-dev/docview/api/middleware"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	// 全局中间件
	r.Use(middleware.CORS())

	// API 版本组
	v1 := r.Group("/api/v1")

	// 健康检查
	v1.GET("/health", h.Viewer.HealthCheck)

	// 文档加载
	v1.POST("/documents", h.Viewer.LoadDocument)

	// 宿主消息入口
	v1.POST("/messages", h.Viewer.PostMessage)

	// 会话视图状态
	sessions := v1.Group("/sessions")
	{
		sessions.GET("/:sessionId/state", h.Viewer.GetState)
		sessions.PUT("/:sessionId/sheet", h.Viewer.SelectSheet)
		sessions.DELETE("/:sessionId/content", h.Viewer.ClearSession)
		sessions.DELETE("/:sessionId", h.Viewer.RemoveSession)
	}

	// PDF 资源直通
	v1.GET("/resources/:resourceId", h.Viewer.GetResource)
}
