// Package query 提供目录之上的只读查询视图：Top-N 与按类型筛选后排序。
// 所有查询都在索引切片的防御性副本上排序，并发查询互不干扰。
package query

import (
	"sort"

	"github.com/rushteam/recserve/catalog"
	"github.com/rushteam/recserve/core"
	"github.com/rushteam/recserve/pkg/dsl"
)

// SortKey 是查询排序依据。
type SortKey string

const (
	// SortByRating 按平均分降序（默认，未识别的 key 回退到此）
	SortByRating SortKey = "rating"
	// SortByPopularity 按评分条数降序
	SortByPopularity SortKey = "popularity"
	// SortByReleaseYear 按上映年份降序
	SortByReleaseYear SortKey = "releaseYear"
)

// ParseSortKey 解析排序依据字符串；未识别的值回退到 SortByRating。
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByPopularity:
		return SortByPopularity
	case SortByReleaseYear:
		return SortByReleaseYear
	default:
		return SortByRating
	}
}

// Engine 是目录的只读查询引擎。
type Engine struct {
	Catalog *catalog.Store
}

func NewEngine(c *catalog.Store) *Engine {
	return &Engine{Catalog: c}
}

// Top 返回全目录按 key 排序后的前 limit 部电影。
// limit 超过可用数量时返回全部；同分电影保持加载顺序（稳定排序）。
func (e *Engine) Top(limit int, key SortKey) []*core.Movie {
	return sortAndTruncate(e.Catalog.Movies(), limit, key)
}

// TopByGenre 返回指定类型按 key 排序后的前 limit 部电影。
// 未知类型返回空结果，不报错。
func (e *Engine) TopByGenre(genre string, limit int, key SortKey) []*core.Movie {
	return sortAndTruncate(e.Catalog.MoviesByGenre(genre), limit, key)
}

// TopFiltered 先按 CEL 表达式过滤，再排序截断。
// 表达式语法见 pkg/dsl；表达式非法时返回错误。
func (e *Engine) TopFiltered(expr string, limit int, key SortKey) ([]*core.Movie, error) {
	return filterSortTruncate(e.Catalog.Movies(), expr, limit, key)
}

// TopByGenreFiltered 在指定类型内先过滤再排序截断。
func (e *Engine) TopByGenreFiltered(genre, expr string, limit int, key SortKey) ([]*core.Movie, error) {
	return filterSortTruncate(e.Catalog.MoviesByGenre(genre), expr, limit, key)
}

func filterSortTruncate(movies []*core.Movie, expr string, limit int, key SortKey) ([]*core.Movie, error) {
	filter, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	matched := make([]*core.Movie, 0, len(movies))
	for _, m := range movies {
		ok, err := filter.Match(m)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, m)
		}
	}
	return sortAndTruncate(matched, limit, key), nil
}

// sortAndTruncate 在传入切片上原地稳定排序并截断。
// 调用方保证切片是副本（catalog 的访问器已做防御性拷贝）。
func sortAndTruncate(movies []*core.Movie, limit int, key SortKey) []*core.Movie {
	switch key {
	case SortByPopularity:
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].RatingNumber() > movies[j].RatingNumber()
		})
	case SortByReleaseYear:
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].ReleaseYear > movies[j].ReleaseYear
		})
	default: // SortByRating 及未识别的 key
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].AverageRating() > movies[j].AverageRating()
		})
	}
	if limit >= 0 && len(movies) > limit {
		return movies[:limit]
	}
	return movies
}
