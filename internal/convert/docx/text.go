package docx

import (
	"bytes"
	"fmt"
	"strings"

	godocx "github.com/fumiama/go-docx"
)

// extractText 用 go-docx 提取原始文本，作为下划线扫描的输入。
// 库对异常输入可能 panic，这里统一兜成错误。
func extractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("docx text extraction: %v", r)
		}
	}()

	doc, err := godocx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *godocx.Paragraph:
			sb.WriteString(v.String())
			sb.WriteByte('\n')
		case *godocx.Table:
			sb.WriteString(v.String())
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
