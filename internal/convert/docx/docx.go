// Package docx 把 Word 文档规范化为 HTML 片段。
//
// 转换分两条路径走同一份字节：结构转换产出节点树，go-docx 提取原始
// 文本。文本里出现下划线时，对节点树做一次填空标记改写，把长度不小于
// 三的下划线串包进 span，字符数保持不变。输出统一经 bluemonday 清洗。
package docx

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"github.com/docview-dev/docview/internal/convert/fragment"
	"github.com/docview-dev/docview/internal/ingest"
	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/pkg/logger"
)

type Normalizer struct {
	logger        logger.Logger
	policy        *bluemonday.Policy
	imageMaxWidth int
}

func NewNormalizer(log logger.Logger, imageMaxWidth int) *Normalizer {
	return &Normalizer{
		logger:        log,
		policy:        fragmentPolicy(),
		imageMaxWidth: imageMaxWidth,
	}
}

// fragmentPolicy 只放行转换器自己产出的标签
func fragmentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "h1", "h2", "h3", "h4", "h5", "h6", "br",
		"strong", "em", "u", "table", "tr", "td", "span", "a", "img")
	p.AllowAttrs("class").OnElements("span")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src").OnElements("img")
	p.AllowStandardURLs()
	p.AllowDataURIImages()
	return p
}

// Normalize 实现 convert.Normalizer
func (n *Normalizer) Normalize(ctx context.Context, doc *models.SourceDocument) (*models.NormalizedContent, error) {
	arc, err := openArchive(doc.Data)
	if err != nil {
		return nil, &ingest.ConversionError{Format: "word", Err: err}
	}

	nodes, err := convertDocument(arc, n.inlineImage)
	if err != nil {
		return nil, &ingest.ConversionError{Format: "word", Err: err}
	}

	if text, err := extractText(doc.Data); err != nil {
		// 结构转换已经成功，文本提取失败不终止加载，直接扫描节点树
		n.logger.Warn("raw text extraction failed, scanning fragment directly",
			logger.String("name", doc.Name),
			logger.Error(err),
		)
		fragment.HighlightBlanks(nodes)
	} else if fragment.HasUnderscore(text) {
		fragment.HighlightBlanks(nodes)
	}

	raw, err := fragment.Render(nodes)
	if err != nil {
		return nil, &ingest.ConversionError{Format: "word", Err: err}
	}

	return &models.NormalizedContent{
		Docx: &models.DocxContent{HTMLFragment: n.policy.Sanitize(raw)},
	}, nil
}
