package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/docview-dev/docview/internal/models"
)

// memoryFile adapts a byte slice to multipart.File for tests.
type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func newMemoryFile(data []byte) multipart.File {
	return memoryFile{bytes.NewReader(data)}
}

func TestFromUploadEmptySelection(t *testing.T) {
	tests := []struct {
		name   string
		file   multipart.File
		header *multipart.FileHeader
	}{
		{"nil file", nil, &multipart.FileHeader{Filename: "a.docx"}},
		{"nil header", newMemoryFile([]byte("x")), nil},
		{"empty filename", newMemoryFile([]byte("x")), &multipart.FileHeader{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromUpload(tt.file, tt.header)
			if !errors.Is(err, ErrEmptySelection) {
				t.Errorf("FromUpload() error = %v, want ErrEmptySelection", err)
			}
		})
	}
}

func TestFromUpload(t *testing.T) {
	data := []byte("fake docx bytes")
	doc, err := FromUpload(newMemoryFile(data), &multipart.FileHeader{Filename: "notes.docx"})
	if err != nil {
		t.Fatalf("FromUpload() error = %v", err)
	}
	if doc.Type != models.TypeDocx {
		t.Errorf("Type = %v, want docx", doc.Type)
	}
	if doc.Name != "notes.docx" {
		t.Errorf("Name = %q, want notes.docx", doc.Name)
	}
	if !bytes.Equal(doc.Data, data) {
		t.Errorf("Data = %q, want %q", doc.Data, data)
	}
}

func TestFromUploadRejectsBeforeReading(t *testing.T) {
	// 类型判定在读取字节之前，不支持的后缀不触碰文件内容
	_, err := FromUpload(newMemoryFile([]byte("irrelevant")), &multipart.FileHeader{Filename: "notes.txt"})
	var unsupportedErr *UnsupportedTypeError
	if !errors.As(err, &unsupportedErr) {
		t.Fatalf("FromUpload() error = %v, want UnsupportedTypeError", err)
	}
}

func TestFromPayload(t *testing.T) {
	raw := []byte{0x50, 0x4b, 0x03, 0x04}
	doc, err := FromPayload("xlsx", "book.xlsx", base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("FromPayload() error = %v", err)
	}
	if doc.Type != models.TypeSpreadsheet {
		t.Errorf("Type = %v, want spreadsheet", doc.Type)
	}
	if !bytes.Equal(doc.Data, raw) {
		t.Errorf("Data = %v, want %v", doc.Data, raw)
	}
}

func TestFromPayloadBadBase64(t *testing.T) {
	_, err := FromPayload("pdf", "scan.pdf", "not*base64*at*all")
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("FromPayload() error = %v, want DecodeError", err)
	}
}

func TestFromPayloadUnknownType(t *testing.T) {
	_, err := FromPayload("csv", "data.csv", base64.StdEncoding.EncodeToString([]byte("a,b")))
	var unsupportedErr *UnsupportedTypeError
	if !errors.As(err, &unsupportedErr) {
		t.Fatalf("FromPayload() error = %v, want UnsupportedTypeError", err)
	}
}
