package convert

import (
	"context"
	"fmt"

	"github.com/docview-dev/docview/internal/convert/docx"
	"github.com/docview-dev/docview/internal/convert/pdf"
	"github.com/docview-dev/docview/internal/convert/sheet"
	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/pkg/logger"
	"github.com/docview-dev/docview/pkg/storage"
)

// Normalizer 把一份原始文档转换为规范化内容
type Normalizer interface {
	Normalize(ctx context.Context, doc *models.SourceDocument) (*models.NormalizedContent, error)
}

// Registry 文档类型到规范化器的纯映射，唯一的分发点，不做内容探测
type Registry struct {
	normalizers map[models.DocumentType]Normalizer
	logger      logger.Logger
}

type Options struct {
	// ImageMaxWidth Word 内嵌图片的宽度上限
	ImageMaxWidth int
}

func NewRegistry(store storage.Storage, log logger.Logger, opts *Options) *Registry {
	if opts == nil {
		opts = &Options{ImageMaxWidth: 1280}
	}

	r := &Registry{
		normalizers: make(map[models.DocumentType]Normalizer),
		logger:      log,
	}

	r.normalizers[models.TypeDocx] = docx.NewNormalizer(log, opts.ImageMaxWidth)
	r.normalizers[models.TypeSpreadsheet] = sheet.NewNormalizer(log)
	r.normalizers[models.TypePDF] = pdf.NewNormalizer(store, log)

	return r
}

// Get 取对应类型的规范化器
func (r *Registry) Get(docType models.DocumentType) (Normalizer, error) {
	n, ok := r.normalizers[docType]
	if !ok {
		r.logger.Error("No normalizer registered",
			logger.String("type", string(docType)),
		)
		return nil, fmt.Errorf("no normalizer for document type: %s", docType)
	}
	return n, nil
}
