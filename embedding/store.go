package embedding

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rushteam/recserve/core"
)

// StoreSource 是远端 KV 存储实现的 Source。
//
// key 布局：`<namespace>:<id>`，value 为逗号分隔的浮点串。
// 拉取流程：KEYS <prefix>* 枚举 → MGET 批量取值 → 逐条解析。
// id 取 key 第二个冒号分段；解析失败的 key/value 跳过并计数。
type StoreSource struct {
	// Store 远端 KV 存储（生产为 store.RedisStore）
	Store core.KeyValueStore

	// MoviePrefix / UserPrefix 两类实体的 key 命名空间（含结尾冒号）
	MoviePrefix string
	UserPrefix  string

	// Timeout 单次 FetchAll 的超时；0 表示不限制
	Timeout time.Duration
}

func NewStoreSource(kv core.KeyValueStore) *StoreSource {
	return &StoreSource{
		Store:       kv,
		MoviePrefix: DefaultMoviePrefix,
		UserPrefix:  DefaultUserPrefix,
		Timeout:     2 * time.Second,
	}
}

func (s *StoreSource) Name() string { return "store" }

func (s *StoreSource) FetchAll(ctx context.Context, kind EntityKind) ([]Entry, int, error) {
	prefix := s.MoviePrefix
	if kind == KindUser {
		prefix = s.UserPrefix
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	keys, err := s.Store.Keys(ctx, prefix+"*")
	if err != nil {
		return nil, 0, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
			fmt.Sprintf("embedding: keys %s* from %s: %v", prefix, s.Store.Name(), err))
	}

	values, err := s.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, 0, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
			fmt.Sprintf("embedding: batch get from %s: %v", s.Store.Name(), err))
	}

	var (
		entries []Entry
		skipped int
	)
	for _, key := range keys {
		id, ok := parseKeyID(key)
		if !ok {
			skipped++
			continue
		}
		raw, ok := values[key]
		if !ok {
			skipped++
			continue
		}
		emb, err := core.ParseEmbedding(string(raw))
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, Entry{ID: id, Emb: emb})
	}
	return entries, skipped, nil
}

// parseKeyID 从 `<namespace>:<id>` 形式的 key 中取出第二个冒号分段并解析为 id。
func parseKeyID(key string) (int64, bool) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

var _ Source = (*StoreSource)(nil)
