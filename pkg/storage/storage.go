package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docview-dev/docview/pkg/logger"
	"github.com/docview-dev/docview/pkg/storage/memory"
	"github.com/docview-dev/docview/pkg/storage/minio"
)

// StorageType 定义存储类型
type StorageType string

const (
	StorageTypeMinio  StorageType = "minio"
	StorageTypeMemory StorageType = "memory"
)

// Storage 暂存对象的接口。上传字节在 API 与转换器之间经由它中转，
// PDF 资源句柄的后备字节也保存在这里，撤销句柄即删除对象。
type Storage interface {
	// Store 按 key 保存对象
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get 读取对象
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete 删除对象
	Delete(ctx context.Context, key string) error
	// CleanupBefore 清理指定前缀下的过期对象。只用于回收孤儿暂存对象，
	// 资源对象的生命周期由句柄撤销管理，不走这里
	CleanupBefore(ctx context.Context, prefix string, threshold time.Time) error
}

// NewStorage 创建存储实例的工厂方法
func NewStorage(storageType StorageType, logger logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeMinio:
		return minio.GetClient(logger)
	case StorageTypeMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
