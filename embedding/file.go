package embedding

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/rushteam/recserve/core"
	"github.com/rushteam/recserve/parser"
)

// FileSource 是文件实现的 Source：按实体类型读取批量嵌入文件。
// 文件每行一条记录，格式 `id:csv-floats`；坏行跳过并计数。
type FileSource struct {
	// MoviePath 电影嵌入文件路径
	MoviePath string

	// UserPath 用户嵌入文件路径
	UserPath string
}

func NewFileSource(moviePath, userPath string) *FileSource {
	return &FileSource{MoviePath: moviePath, UserPath: userPath}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) FetchAll(ctx context.Context, kind EntityKind) ([]Entry, int, error) {
	path := s.MoviePath
	if kind == KindUser {
		path = s.UserPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
			fmt.Sprintf("embedding: open %s: %v", path, err))
	}
	defer f.Close()

	var (
		entries []Entry
		skipped int
	)
	scanner := bufio.NewScanner(f)
	// 大维度向量行可能超过默认缓冲
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		id, emb, err := parser.ParseEmbeddingLine(line)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, Entry{ID: id, Emb: emb})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeUnreachable,
			fmt.Sprintf("embedding: read %s: %v", path, err))
	}
	return entries, skipped, nil
}

var _ Source = (*FileSource)(nil)
