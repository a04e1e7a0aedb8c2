// Package sheet 把工作簿规范化为命名的 HTML 表格片段序列。
// 表顺序与名称照工作簿声明原样保留，不排序也不去重；
// 任何一张表失败则整个文档失败，不展示残缺的表列表。
package sheet

import (
	"context"
	"strings"

	"github.com/docview-dev/docview/internal/ingest"
	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/pkg/logger"
)

type Normalizer struct {
	logger logger.Logger
}

func NewNormalizer(log logger.Logger) *Normalizer {
	return &Normalizer{logger: log}
}

// Normalize 实现 convert.Normalizer。
// 旧版 .xls 走 BIFF 解析，其余按 OOXML 工作簿处理。
func (n *Normalizer) Normalize(ctx context.Context, doc *models.SourceDocument) (*models.NormalizedContent, error) {
	var (
		sheets []models.Sheet
		err    error
	)
	if strings.HasSuffix(strings.ToLower(doc.Name), ".xls") {
		sheets, err = convertLegacyWorkbook(doc.Data)
	} else {
		sheets, err = convertWorkbook(doc.Data)
	}
	if err != nil {
		return nil, &ingest.ConversionError{Format: "spreadsheet", Err: err}
	}

	return &models.NormalizedContent{
		Spreadsheet: &models.SpreadsheetContent{Sheets: sheets},
	}, nil
}
