// Package embedding 定义"读取某一实体类型全部嵌入"的能力接口及其实现。
//
// 两种数据源按配置选择，调用方只面向 Source 接口：
//   - FileSource：批量文件，每行 `id:csv-floats`
//   - StoreSource：远端 KV 存储，key 形如 `<namespace>:<id>`
//
// 失败语义：数据源整体不可达（文件缺失 / 存储故障）向上传播；
// 单行/单 key 格式错误只跳过并计数，不中断整次拉取。
package embedding

import "context"

// EntityKind 是嵌入所属的实体类型。
type EntityKind string

const (
	KindMovie EntityKind = "movie"
	KindUser  EntityKind = "user"
)

// 默认的 KV 存储 key 命名空间（与迁移工具写入的布局一致）。
const (
	DefaultMoviePrefix   = "i2vEmb:"
	DefaultUserPrefix    = "uEmb:"
	DefaultFeaturePrefix = "mf:"
)

// Entry 是一条 (实体 id, 嵌入向量) 对。
type Entry struct {
	ID  int64
	Emb []float64
}

// Source 是嵌入数据源的能力接口。
//
// FetchAll 返回指定实体类型的全部嵌入，以及被跳过的坏记录数。
// 返回的 error 只表示整体失败（UNREACHABLE 级别），此时结果不可用。
type Source interface {
	// Name 返回数据源名称（用于日志/监控）
	Name() string

	// FetchAll 拉取指定实体类型的全部 (id, 向量) 对
	FetchAll(ctx context.Context, kind EntityKind) (entries []Entry, skipped int, err error)
}

// FeatureEntry 是一条 (实体 id, 特征表) 对。
type FeatureEntry struct {
	ID       int64
	Features map[string]string
}

// FeatureSource 是物品特征数据源的能力接口。
//
// ids 是目录中已知的物品 id 集合；实现可以据此逐实体查询（Feast），
// 也可以忽略它直接枚举自己的命名空间（KV 存储）。
// 未知 id 由调用方跳过，不视为错误。
type FeatureSource interface {
	// Name 返回数据源名称
	Name() string

	// Fetch 拉取物品特征表
	Fetch(ctx context.Context, ids []int64) ([]FeatureEntry, error)
}
