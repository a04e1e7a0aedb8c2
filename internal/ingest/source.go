package ingest

import (
	"encoding/base64"
	"io"
	"mime/multipart"

	"github.com/docview-dev/docview/internal/models"
)

// FromUpload 从上传文件构造 SourceDocument，类型由文件名后缀判定
func FromUpload(file multipart.File, header *multipart.FileHeader) (*models.SourceDocument, error) {
	if file == nil || header == nil || header.Filename == "" {
		return nil, ErrEmptySelection
	}

	docType, err := DetectType(header.Filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.SourceDocument{
		Data: data,
		Type: docType,
		Name: header.Filename,
	}, nil
}

// FromPayload 从宿主消息构造 SourceDocument。
// 类型以消息声明为准，载荷为 base64 编码的文件字节。
func FromPayload(fileType, fileName, payload string) (*models.SourceDocument, error) {
	docType, err := ParseDeclaredType(fileType)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &models.SourceDocument{
		Data: data,
		Type: docType,
		Name: fileName,
	}, nil
}
