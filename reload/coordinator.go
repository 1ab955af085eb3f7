// Package reload 协调模型版本的在线切换：把新版本的嵌入换入现存目录，
// 全程不阻塞读请求，失败时目录与激活版本保持原状。
package reload

import (
	"context"
	"sync/atomic"

	"github.com/rushteam/recserve/catalog"
	"github.com/rushteam/recserve/core"
	"github.com/rushteam/recserve/embedding"
	"github.com/rushteam/recserve/model"
)

// ErrInFlight 表示已有一次重载在进行中，本次请求被拒绝（不排队）。
var ErrInFlight = core.NewDomainError(core.ModuleReload, core.ErrorCodeReloadInFlight, "reload: reload already in progress")

// SourceResolver 把模型版本解析为嵌入数据源。
// 由配置层提供（文件源拼路径 / 存储源换 key 前缀）。
type SourceResolver func(v model.Version) (embedding.Source, error)

// Coordinator 是重载状态机：Idle ↔ Reloading。
//
// 对调用方而言目录没有"重载中"状态——读永远不被阻塞；
// inFlight 只用于防止两次重载互相竞争，CAS 失败即拒绝。
type Coordinator struct {
	Catalog  *catalog.Store
	Registry *model.Registry
	Resolve  SourceResolver

	inFlight atomic.Bool
}

func NewCoordinator(c *catalog.Store, r *model.Registry, resolve SourceResolver) *Coordinator {
	return &Coordinator{Catalog: c, Registry: r, Resolve: resolve}
}

// Reload 切换到指定模型版本。
//
// 流程：解析版本（未登记 → ErrUnknownVersion，无任何状态变更）→
// 占用 inFlight（已占用 → ErrInFlight）→ 拉取新嵌入到暂存区并应用 →
// 成功后更新激活版本标记。任一步失败都不会留下部分状态：
// 拉取失败时目录和激活版本保持切换前的样子。
func (c *Coordinator) Reload(ctx context.Context, versionID string) (*catalog.ReloadStats, error) {
	ver, err := c.Registry.Resolve(versionID)
	if err != nil {
		return nil, err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer c.inFlight.Store(false)

	src, err := c.Resolve(ver)
	if err != nil {
		return nil, err
	}

	stats, err := c.Catalog.ReloadEmbeddings(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := c.Registry.SetActive(ver.ID); err != nil {
		return nil, err
	}
	return stats, nil
}

// Reloading 报告当前是否有重载在进行中。
func (c *Coordinator) Reloading() bool {
	return c.inFlight.Load()
}
