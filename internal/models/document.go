package models

import (
	"time"
)

// DocumentType 文档类型
type DocumentType string

const (
	TypeDocx        DocumentType = "docx"
	TypeSpreadsheet DocumentType = "spreadsheet"
	TypePDF         DocumentType = "pdf"
	TypeUnsupported DocumentType = "unsupported"
)

// SourceDocument 原始文档，一次加载对应一份字节缓冲
type SourceDocument struct {
	Data []byte       `json:"-"`
	Type DocumentType `json:"type"`
	Name string       `json:"name"`
}

// DocxContent Word 文档规范化结果
type DocxContent struct {
	HTMLFragment string `json:"htmlFragment"`
}

// Sheet 工作簿中的一张表
type Sheet struct {
	Name         string `json:"name"`
	HTMLFragment string `json:"htmlFragment"`
}

// SpreadsheetContent 电子表格规范化结果，表顺序与工作簿声明顺序一致
type SpreadsheetContent struct {
	Sheets []Sheet `json:"sheets"`
}

// ResourceHandle 指向暂存字节的可撤销引用
type ResourceHandle struct {
	ID    string `json:"id"`
	Pages int    `json:"pages"`
	Size  int64  `json:"size"`
}

// PDFContent PDF 直通结果，不做内容转换
type PDFContent struct {
	Handle ResourceHandle `json:"handle"`
}

// NormalizedContent 规范化内容，恰好有一个变体非空
type NormalizedContent struct {
	Docx        *DocxContent        `json:"docx,omitempty"`
	Spreadsheet *SpreadsheetContent `json:"spreadsheet,omitempty"`
	PDF         *PDFContent         `json:"pdf,omitempty"`
}

// Kind returns which variant is populated.
func (c *NormalizedContent) Kind() DocumentType {
	switch {
	case c == nil:
		return TypeUnsupported
	case c.Docx != nil:
		return TypeDocx
	case c.Spreadsheet != nil:
		return TypeSpreadsheet
	case c.PDF != nil:
		return TypePDF
	default:
		return TypeUnsupported
	}
}

// LoadTask 一次加载任务
type LoadTask struct {
	ID        string       `json:"id"`
	SessionID string       `json:"sessionId"`
	Token     uint64       `json:"token"`
	Type      DocumentType `json:"type"`
	Filename  string       `json:"filename"`
	FileSize  int64        `json:"fileSize"`
	CreatedAt time.Time    `json:"createdAt"`
}
