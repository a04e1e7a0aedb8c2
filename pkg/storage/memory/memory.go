package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

type object struct {
	data      []byte
	createdAt time.Time
}

// Store 进程内存储，是默认后端。对象随进程消亡，符合
// “查看过的文档不落盘”的要求；PDF 句柄撤销后字节立即不可达。
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
}

// New 创建内存存储
func New() *Store {
	return &Store{
		objects: make(map[string]object),
	}
}

// Store implements Storage.Store
func (s *Store) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}

	s.mu.Lock()
	s.objects[key] = object{data: data, createdAt: time.Now()}
	s.mu.Unlock()

	return key, nil
}

// Get implements Storage.Get
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete implements Storage.Delete
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// CleanupBefore implements Storage.CleanupBefore
func (s *Store) CleanupBefore(ctx context.Context, prefix string, threshold time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) && obj.createdAt.Before(threshold) {
			delete(s.objects, key)
		}
	}
	return nil
}

// Len returns the number of live objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
