// Package model 维护可切换的嵌入模型版本登记表。
// 版本集合在构建期确定、之后不可变；运行期唯一可变状态是"当前激活版本"标记。
package model

import (
	"fmt"
	"sync"

	"github.com/rushteam/recserve/core"
)

// Version 是一个命名的模型版本：一对电影/用户嵌入数据源定位符。
// 定位符的含义由嵌入源类型决定：文件源下是文件名，存储源下是 key 前缀。
// Version 定义后不可变。
type Version struct {
	ID             string // 版本标识，如 "standard"
	DisplayName    string // 展示名称
	MovieEmbSource string // 电影嵌入定位符
	UserEmbSource  string // 用户嵌入定位符
}

// VersionStatus 是 List 返回的条目：版本加上激活标记。
type VersionStatus struct {
	Version
	Current bool
}

// ErrUnknownVersion 表示请求的版本未登记。
var ErrUnknownVersion = core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound, "model: unknown version")

// Registry 是进程级的模型版本登记表。
// SetActive 只更新标记，从不触碰目录数据（目录由 reload.Coordinator 驱动）。
type Registry struct {
	mu       sync.RWMutex
	versions []Version
	index    map[string]int
	active   string
}

// NewRegistry 以给定版本集合与初始激活版本构建登记表。
func NewRegistry(versions []Version, active string) (*Registry, error) {
	if len(versions) == 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: no versions registered")
	}
	index := make(map[string]int, len(versions))
	for i, v := range versions {
		if v.ID == "" {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: version with empty id")
		}
		if _, dup := index[v.ID]; dup {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
				fmt.Sprintf("model: duplicate version id %q", v.ID))
		}
		index[v.ID] = i
	}
	if active == "" {
		active = versions[0].ID
	}
	if _, ok := index[active]; !ok {
		return nil, ErrUnknownVersion
	}
	return &Registry{
		versions: versions,
		index:    index,
		active:   active,
	}, nil
}

// List 返回全部版本及各自的激活标记（定义顺序）。
func (r *Registry) List() []VersionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]VersionStatus, len(r.versions))
	for i, v := range r.versions {
		out[i] = VersionStatus{Version: v, Current: v.ID == r.active}
	}
	return out
}

// Resolve 按 id 查找版本；未登记返回 ErrUnknownVersion。
func (r *Registry) Resolve(id string) (Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return Version{}, ErrUnknownVersion
	}
	return r.versions[i], nil
}

// Active 返回当前激活版本。
func (r *Registry) Active() Version {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions[r.index[r.active]]
}

// SetActive 更新激活标记；未登记的 id 返回 ErrUnknownVersion 且状态不变。
func (r *Registry) SetActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[id]; !ok {
		return ErrUnknownVersion
	}
	r.active = id
	return nil
}

// DefaultVersions 返回内置的两个文件版本（标准数据集与大数据集）。
func DefaultVersions() []Version {
	return []Version{
		{ID: "standard", DisplayName: "standard dataset", MovieEmbSource: "item2vecEmb.csv", UserEmbSource: "userEmb.csv"},
		{ID: "large", DisplayName: "large dataset", MovieEmbSource: "item2vecEmb_large.csv", UserEmbSource: "userEmb_large.csv"},
	}
}
