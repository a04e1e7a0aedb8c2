// Package pdf 实现 PDF 直通：不转换内容，校验字节后暂存，
// 发放可撤销的资源句柄。句柄存活期间后备字节保持可读，
// 视图清空或被新加载取代时句柄被撤销、字节删除。
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	lpdf "github.com/ledongthuc/pdf"

	"github.com/docview-dev/docview/internal/ingest"
	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/pkg/logger"
	"github.com/docview-dev/docview/pkg/storage"
)

// ResourceKey 句柄 ID 对应的存储 key
func ResourceKey(id string) string {
	return "resources/" + id
}

type Normalizer struct {
	store  storage.Storage
	logger logger.Logger
}

func NewNormalizer(store storage.Storage, log logger.Logger) *Normalizer {
	return &Normalizer{
		store:  store,
		logger: log,
	}
}

// Normalize 实现 convert.Normalizer
func (n *Normalizer) Normalize(ctx context.Context, doc *models.SourceDocument) (*models.NormalizedContent, error) {
	pages, err := pageCount(doc.Data)
	if err != nil {
		return nil, &ingest.ConversionError{Format: "pdf", Err: err}
	}

	id := uuid.New().String()
	if _, err := n.store.Store(ctx, bytes.NewReader(doc.Data), ResourceKey(id)); err != nil {
		return nil, fmt.Errorf("stage pdf resource: %w", err)
	}

	n.logger.Debug("pdf resource staged",
		logger.String("id", id),
		logger.Int("pages", pages),
		logger.Int("size", len(doc.Data)),
	)

	return &models.NormalizedContent{
		PDF: &models.PDFContent{
			Handle: models.ResourceHandle{
				ID:    id,
				Pages: pages,
				Size:  int64(len(doc.Data)),
			},
		},
	}, nil
}

// pageCount 解析 PDF 交叉引用表取页数，顺带确认字节确实是 PDF。
// 解析库对个别畸形文件会 panic，兜成错误。
func pageCount(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := lpdf.NewReader(reader, reader.Size())
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return pdfReader.NumPage(), nil
}
