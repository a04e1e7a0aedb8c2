package ingest

import (
	"errors"
	"fmt"
)

// ErrEmptySelection 未选择文件，调用方忽略，不改变视图状态
var ErrEmptySelection = errors.New("no file selected")

// UnsupportedTypeError 不支持的文件类型
type UnsupportedTypeError struct {
	Ext string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q: accepted formats are .docx, .xlsx, .xls and .pdf", e.Ext)
}

// LegacyFormatError 旧版二进制格式，提示用户转换
type LegacyFormatError struct {
	Ext string
}

func (e *LegacyFormatError) Error() string {
	return fmt.Sprintf("legacy format %q is not supported: please convert the file to .docx, .xlsx or .pdf and try again", e.Ext)
}

// DecodeError 传输载荷解码失败
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode file payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConversionError 外部转换失败，消息透传给用户
type ConversionError struct {
	Format string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert %s document: %v", e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
