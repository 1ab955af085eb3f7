// Package migrate 是一次性的数据种子工具：把批量嵌入文件灌入远端 KV 存储。
// 只在部署/升级时运行，与在线目录没有运行期交互。
package migrate

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rushteam/recserve/core"
	"github.com/rushteam/recserve/embedding"
)

// Migrator 把 `id:csv-floats` 格式的嵌入文件写入 KV 存储。
// 向量串原样落盘，不做数值校验（读取侧负责解析与跳过）。
type Migrator struct {
	Store  core.Store
	Logger *log.Logger

	// BatchSize 单次 BatchSet 的记录数，默认 100
	BatchSize int
}

func NewMigrator(s core.Store) *Migrator {
	return &Migrator{
		Store:     s,
		Logger:    log.Default(),
		BatchSize: 100,
	}
}

// MigrateMovieEmbeddings 迁移电影嵌入，key 布局 `i2vEmb:<id>`。
func (m *Migrator) MigrateMovieEmbeddings(ctx context.Context, path string) (int, error) {
	return m.migrateFile(ctx, path, embedding.DefaultMoviePrefix)
}

// MigrateUserEmbeddings 迁移用户嵌入，key 布局 `uEmb:<id>`。
func (m *Migrator) MigrateUserEmbeddings(ctx context.Context, path string) (int, error) {
	return m.migrateFile(ctx, path, embedding.DefaultUserPrefix)
}

func (m *Migrator) migrateFile(ctx context.Context, path, prefix string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
			fmt.Sprintf("migrate: open %s: %v", path, err))
	}
	defer f.Close()

	m.Logger.Printf("migrating embeddings from %s to %s (prefix %s) ...", path, m.Store.Name(), prefix)

	batchSize := m.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	migrated := 0
	batch := make(map[string][]byte, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := m.Store.BatchSet(ctx, batch); err != nil {
			return fmt.Errorf("migrate: batch set: %w", err)
		}
		batch = make(map[string][]byte, batchSize)
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			continue
		}
		batch[prefix+strings.TrimSpace(parts[0])] = []byte(parts[1])
		migrated++
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return migrated, err
			}
			m.Logger.Printf("migrated %d embeddings", migrated)
		}
	}
	if err := scanner.Err(); err != nil {
		return migrated, fmt.Errorf("migrate: read %s: %w", path, err)
	}
	if err := flush(); err != nil {
		return migrated, err
	}

	m.Logger.Printf("migration completed: %d embeddings written", migrated)
	return migrated, nil
}

// Stats 统计存储中两类嵌入的 key 数量（需要 KeyValueStore 的 Keys 能力）。
func (m *Migrator) Stats(ctx context.Context) (movies, users int, err error) {
	kv, ok := m.Store.(core.KeyValueStore)
	if !ok {
		return 0, 0, fmt.Errorf("migrate: store %s does not support key enumeration", m.Store.Name())
	}
	movieKeys, err := kv.Keys(ctx, embedding.DefaultMoviePrefix+"*")
	if err != nil {
		return 0, 0, err
	}
	userKeys, err := kv.Keys(ctx, embedding.DefaultUserPrefix+"*")
	if err != nil {
		return 0, 0, err
	}
	return len(movieKeys), len(userKeys), nil
}
