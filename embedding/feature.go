package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/recserve/core"
)

// StoreFeatureSource 是远端 KV 存储实现的 FeatureSource。
//
// key 布局：`<prefix><id>`（如 "mf:158"），value 为 Hash 结构的特征表。
// Fetch 忽略传入的 ids，直接枚举命名空间下的全部 key（KEYS + HGETALL）；
// 与目录无交集的 id 由调用方跳过。
type StoreFeatureSource struct {
	Store core.KeyValueStore

	// Prefix 特征 key 命名空间（含结尾冒号），默认 "mf:"
	Prefix string

	// Timeout 单次 Fetch 的超时；0 表示不限制
	Timeout time.Duration
}

func NewStoreFeatureSource(kv core.KeyValueStore) *StoreFeatureSource {
	return &StoreFeatureSource{
		Store:   kv,
		Prefix:  DefaultFeaturePrefix,
		Timeout: 2 * time.Second,
	}
}

func (s *StoreFeatureSource) Name() string { return "store" }

func (s *StoreFeatureSource) Fetch(ctx context.Context, _ []int64) ([]FeatureEntry, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	keys, err := s.Store.Keys(ctx, s.Prefix+"*")
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
			fmt.Sprintf("embedding: keys %s* from %s: %v", s.Prefix, s.Store.Name(), err))
	}

	var entries []FeatureEntry
	for _, key := range keys {
		id, ok := parseKeyID(key)
		if !ok {
			continue
		}
		raw, err := s.Store.HGetAll(ctx, key)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
				fmt.Sprintf("embedding: hgetall %s from %s: %v", key, s.Store.Name(), err))
		}
		features := make(map[string]string, len(raw))
		for f, v := range raw {
			features[f] = string(v)
		}
		entries = append(entries, FeatureEntry{ID: id, Features: features})
	}
	return entries, nil
}

var _ FeatureSource = (*StoreFeatureSource)(nil)
