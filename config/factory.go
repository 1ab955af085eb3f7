package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rushteam/recserve/core"
	"github.com/rushteam/recserve/embedding"
	"github.com/rushteam/recserve/feast"
	"github.com/rushteam/recserve/model"
	"github.com/rushteam/recserve/pkg/conv"
	"github.com/rushteam/recserve/store"
)

// SourceFactory 把模型版本翻译为嵌入数据源。
// redis 源在工厂构建时只拨号一次，多次重载共享同一连接。
type SourceFactory struct {
	cfg SourceConfig
	kv  core.KeyValueStore // 仅 redis 源持有
}

// NewSourceFactory 根据嵌入源配置构建工厂。
func NewSourceFactory(cfg SourceConfig) (*SourceFactory, error) {
	f := &SourceFactory{cfg: cfg}
	switch cfg.Type {
	case "", "file":
		// 文件源无需预建连接
	case "redis":
		addr := conv.ConfigGet(cfg.Params, "addr", "localhost:6379")
		db := int(conv.ConfigGetInt64(cfg.Params, "db", 0))
		kv, err := store.NewRedisStore(addr, db)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
				fmt.Sprintf("config: connect redis %s: %v", addr, err))
		}
		f.kv = kv
	default:
		return nil, fmt.Errorf("unknown embedding source type: %s", cfg.Type)
	}
	return f, nil
}

// SourceFor 为指定模型版本构建嵌入数据源。
// 文件源下版本定位符是 dir 内的文件名；redis 源下是 key 前缀
// （为空则使用默认命名空间）。签名与 reload.SourceResolver 一致。
func (f *SourceFactory) SourceFor(ver model.Version) (embedding.Source, error) {
	switch f.cfg.Type {
	case "", "file":
		dir := conv.ConfigGet(f.cfg.Params, "dir", "")
		return embedding.NewFileSource(
			filepath.Join(dir, ver.MovieEmbSource),
			filepath.Join(dir, ver.UserEmbSource),
		), nil
	case "redis":
		src := embedding.NewStoreSource(f.kv)
		if ver.MovieEmbSource != "" {
			src.MoviePrefix = ver.MovieEmbSource
		}
		if ver.UserEmbSource != "" {
			src.UserPrefix = ver.UserEmbSource
		}
		if sec := conv.ConfigGetInt64(f.cfg.Params, "timeout", 0); sec > 0 {
			src.Timeout = time.Duration(sec) * time.Second
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown embedding source type: %s", f.cfg.Type)
	}
}

// Store 返回工厂持有的 KV 存储（仅 redis 源非 nil）。
func (f *SourceFactory) Store() core.KeyValueStore { return f.kv }

// Close 释放工厂持有的连接。
func (f *SourceFactory) Close() error {
	if f.kv != nil {
		return f.kv.Close()
	}
	return nil
}

// BuildFeatureSource 根据特征配置构建特征数据源；未启用时返回 nil。
// kv 是可复用的已建连接（嵌入源为 redis 时传工厂的 Store()），为 nil 时按配置自行拨号。
func BuildFeatureSource(cfg FeatureConfig, kv core.KeyValueStore) (embedding.FeatureSource, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Type {
	case "", "redis":
		if kv == nil {
			addr := conv.ConfigGet(cfg.Params, "addr", "localhost:6379")
			db := int(conv.ConfigGetInt64(cfg.Params, "db", 0))
			rs, err := store.NewRedisStore(addr, db)
			if err != nil {
				return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
					fmt.Sprintf("config: connect redis %s: %v", addr, err))
			}
			kv = rs
		}
		src := embedding.NewStoreFeatureSource(kv)
		if prefix := conv.ConfigGet(cfg.Params, "prefix", ""); prefix != "" {
			src.Prefix = prefix
		}
		if sec := conv.ConfigGetInt64(cfg.Params, "timeout", 0); sec > 0 {
			src.Timeout = time.Duration(sec) * time.Second
		}
		return src, nil
	case "feast":
		host := conv.ConfigGet(cfg.Params, "host", "localhost")
		port := int(conv.ConfigGetInt64(cfg.Params, "port", 6565))
		project := conv.ConfigGet(cfg.Params, "project", "")
		features := conv.SliceAnyToString(cfg.Params["features"])
		if len(features) == 0 {
			return nil, fmt.Errorf("feast feature source: features not configured")
		}
		client, err := feast.NewGrpcClient(host, port, project)
		if err != nil {
			return nil, err
		}
		src := embedding.NewFeastFeatureSource(client, features)
		if entity := conv.ConfigGet(cfg.Params, "entity", ""); entity != "" {
			src.EntityName = entity
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown feature source type: %s", cfg.Type)
	}
}
