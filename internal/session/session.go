// Package session 管理查看器会话：每个会话持有一个视图状态控制器。
// 嵌入模式下宿主只投递文件数据不带会话标识，使用固定的默认会话。
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/docview-dev/docview/internal/viewstate"
)

// DefaultID 嵌入模式使用的默认会话
const DefaultID = "embedded"

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*viewstate.Controller
	release  viewstate.ReleaseFunc
}

func NewManager(release viewstate.ReleaseFunc) *Manager {
	return &Manager{
		sessions: make(map[string]*viewstate.Controller),
		release:  release,
	}
}

// Create 新建会话，返回会话 ID
func (m *Manager) Create() string {
	id := uuid.New().String()

	m.mu.Lock()
	m.sessions[id] = viewstate.NewController(m.release)
	m.mu.Unlock()

	return id
}

// Get 查找会话
func (m *Manager) Get(id string) (*viewstate.Controller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ctrl, ok := m.sessions[id]
	return ctrl, ok
}

// GetOrCreate 查找会话，不存在时按给定 ID 建立（默认会话走这里）
func (m *Manager) GetOrCreate(id string) *viewstate.Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctrl, ok := m.sessions[id]; ok {
		return ctrl
	}
	ctrl := viewstate.NewController(m.release)
	m.sessions[id] = ctrl
	return ctrl
}

// Remove 删除会话并清空其状态，持有的资源句柄随之撤销
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	ctrl, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		ctrl.Clear()
	}
}
