// Package recserve 是推荐服务的在线目录层（Recommendation Serving Kit）。
//
// 设计要点：
// - Catalog-first: 启动时从平面文件物化电影/用户目录与类型反向索引，常驻内存
// - 双源嵌入: 批量文件与远端 KV 存储两种嵌入来源，按配置选择，调用方只面向能力接口
// - 热切换: 模型版本可在不中断读请求的前提下原子换入（失败不留部分状态）
package recserve

import (
	"github.com/rushteam/recserve/catalog"
	"github.com/rushteam/recserve/query"
	"github.com/rushteam/recserve/serving"
)

// 轻量 facade：便于用户直接 import "recserve" 使用核心抽象。
type Catalog = catalog.Store
type Engine = query.Engine
type Service = serving.Service
type SortKey = query.SortKey

const (
	SortByRating      = query.SortByRating
	SortByPopularity  = query.SortByPopularity
	SortByReleaseYear = query.SortByReleaseYear
)
