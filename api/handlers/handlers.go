package handlers

import (
	"github.com/docview-dev/docview/internal/service/viewer"
	"github.com/docview-dev/docview/pkg/logger"
)

type Handlers struct {
	Viewer *ViewerHandler
}

func NewHandlers(
	viewerService viewer.ViewerService,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Viewer: NewViewerHandler(viewerService, logger),
	}
}
