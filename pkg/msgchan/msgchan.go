// Package msgchan 宿主消息通道：嵌入模式下宿主应用通过它投递文件数据。
// 通道是类型化的进出队列抽象，与具体传输解耦；投递按至多一次处理，
// 查看器不请求重发。
package msgchan

import (
	"context"
)

const (
	// TypeFileData 宿主投递文件数据
	TypeFileData = "FILE_DATA"
	// TypeViewerReady 查看器启动后对外宣告一次就绪
	TypeViewerReady = "VIEWER_READY"
)

// Message 通道消息。FileData 为 base64 编码的文件字节，
// FileType 显式声明类型，查看器不从文件名推断。
type Message struct {
	Type     string `json:"type"`
	FileType string `json:"fileType,omitempty"`
	FileName string `json:"fileName,omitempty"`
	FileData string `json:"fileData,omitempty"`
}

// Channel 消息通道接口
type Channel interface {
	// Receive 订阅入站消息
	Receive(ctx context.Context) (<-chan Message, error)
	// AnnounceReady 宣告就绪，幂等，只发一次
	AnnounceReady(ctx context.Context) error
	Close() error
}
