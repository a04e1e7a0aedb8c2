package ingest

import (
	"path/filepath"
	"strings"

	"github.com/docview-dev/docview/internal/models"
)

// 扩展名到文档类型的映射，不做内容探测
var extToType = map[string]models.DocumentType{
	".docx": models.TypeDocx,
	".xlsx": models.TypeSpreadsheet,
	".xls":  models.TypeSpreadsheet,
	".pdf":  models.TypePDF,
}

// 旧版二进制格式，给出单独的转换提示
var legacyExts = map[string]bool{
	".doc":  true,
	".ppt":  true,
	".pptx": true,
}

// DetectType 按文件名后缀判定文档类型，大小写不敏感。
// 旧版格式返回 LegacyFormatError，其余未知后缀返回 UnsupportedTypeError。
func DetectType(filename string) (models.DocumentType, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extToType[ext]; ok {
		return t, nil
	}
	if legacyExts[ext] {
		return models.TypeUnsupported, &LegacyFormatError{Ext: ext}
	}
	return models.TypeUnsupported, &UnsupportedTypeError{Ext: ext}
}

// ParseDeclaredType 解析宿主消息声明的类型标签，不从文件名推断
func ParseDeclaredType(tag string) (models.DocumentType, error) {
	switch strings.ToLower(tag) {
	case "docx":
		return models.TypeDocx, nil
	case "xlsx", "xls":
		return models.TypeSpreadsheet, nil
	case "pdf":
		return models.TypePDF, nil
	default:
		return models.TypeUnsupported, &UnsupportedTypeError{Ext: tag}
	}
}
