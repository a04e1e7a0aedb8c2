package viewstate

import (
	"sync"

	"github.com/docview-dev/docview/internal/models"
)

// Phase 视图生命周期阶段
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

// ReleaseFunc revokes the backing allocation of a PDF resource handle.
type ReleaseFunc func(handle models.ResourceHandle)

// Snapshot 视图状态的一致性快照
type Snapshot struct {
	Phase         Phase                     `json:"phase"`
	Error         string                    `json:"error,omitempty"`
	Content       *models.NormalizedContent `json:"content,omitempty"`
	SelectedSheet int                       `json:"selectedSheet"`
}

// Controller 视图状态的唯一持有者。
//
// 所有状态迁移串行化；每次加载由 BeginLoad 发放单调递增的令牌，
// CompleteLoad/FailLoad 仅在令牌仍为当前令牌时生效，过期结果静默丢弃。
type Controller struct {
	mu       sync.Mutex
	phase    Phase
	errMsg   string
	content  *models.NormalizedContent
	selected int
	token    uint64
	release  ReleaseFunc
}

// NewController creates an idle controller. release may be nil when no
// revocable resources are in play (tests, docx-only deployments).
func NewController(release ReleaseFunc) *Controller {
	return &Controller{
		phase:   PhaseIdle,
		release: release,
	}
}

// BeginLoad 进入 Loading，清除旧内容与错误，返回本次加载的令牌。
// 被替换的 PDF 句柄在此一次性撤销。
func (c *Controller) BeginLoad() uint64 {
	c.mu.Lock()
	handle := c.takeHandleLocked()
	c.phase = PhaseLoading
	c.errMsg = ""
	c.content = nil
	c.selected = 0
	c.token++
	token := c.token
	c.mu.Unlock()

	c.revoke(handle)
	return token
}

// CompleteLoad applies a finished conversion. Returns false when the token is
// stale; a stale PDF result has its handle revoked so it cannot leak.
func (c *Controller) CompleteLoad(token uint64, content *models.NormalizedContent) bool {
	c.mu.Lock()
	if token != c.token || c.phase != PhaseLoading {
		c.mu.Unlock()
		if content != nil && content.PDF != nil {
			c.revoke(&content.PDF.Handle)
		}
		return false
	}
	c.phase = PhaseReady
	c.errMsg = ""
	c.content = content
	c.selected = 0
	c.mu.Unlock()
	return true
}

// FailLoad applies a conversion failure. Stale tokens are discarded.
func (c *Controller) FailLoad(token uint64, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token || c.phase != PhaseLoading {
		return false
	}
	c.phase = PhaseError
	c.errMsg = message
	c.content = nil
	c.selected = 0
	return true
}

// SelectSheet 切换选中的表。仅在 Ready、内容为电子表格且下标在界内时生效，
// 否则为空操作，不向用户暴露错误。
func (c *Controller) SelectSheet(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseReady || c.content == nil || c.content.Spreadsheet == nil {
		return
	}
	if index < 0 || index >= len(c.content.Spreadsheet.Sheets) {
		return
	}
	c.selected = index
}

// Clear 任意阶段回到 Idle，释放内容并撤销持有的 PDF 句柄。
// 令牌同样递增，保证在途加载的结果无法落入已清空的视图。
func (c *Controller) Clear() {
	c.mu.Lock()
	handle := c.takeHandleLocked()
	c.phase = PhaseIdle
	c.errMsg = ""
	c.content = nil
	c.selected = 0
	c.token++
	c.mu.Unlock()

	c.revoke(handle)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Phase:         c.phase,
		Error:         c.errMsg,
		Content:       c.content,
		SelectedSheet: c.selected,
	}
}

// Token returns the current load token.
func (c *Controller) Token() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// takeHandleLocked detaches the held PDF handle, if any, so it is revoked
// exactly once outside the lock.
func (c *Controller) takeHandleLocked() *models.ResourceHandle {
	if c.content == nil || c.content.PDF == nil {
		return nil
	}
	handle := c.content.PDF.Handle
	c.content = nil
	return &handle
}

func (c *Controller) revoke(handle *models.ResourceHandle) {
	if handle == nil || c.release == nil {
		return
	}
	c.release(*handle)
}
