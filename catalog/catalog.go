// Package catalog 实现进程内的目录存储：电影/用户主索引、
// 类型反向索引，以及嵌入向量的初始挂载与运行期重载。
//
// 生命周期：进程启动时 Load 一次（固定阶段顺序），之后：
//   - 标识、标题、类型、评分只读，查询无需加锁
//   - 嵌入/特征可被 ReloadEmbeddings 原地替换（逐实体原子换引用）
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/recserve/core"
	"github.com/rushteam/recserve/embedding"
	"github.com/rushteam/recserve/parser"
)

// Store 是目录的权威存储。一个进程持有一个实例，以引用传给所有请求处理方。
type Store struct {
	mu     sync.Mutex // 保护加载阶段（Load 只允许执行一次）
	loaded bool

	movies     map[int64]*core.Movie
	users      map[int64]*core.User
	genreIndex map[string][]*core.Movie

	// movieIDs / userIDs 记录插入顺序，保证遍历与排序的可复现性
	movieIDs []int64
	userIDs  []int64

	logger *log.Logger
}

// Option 配置 Store。
type Option func(*Store)

// WithLogger 注入日志器；默认使用 log.Default()。
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		movies:     make(map[int64]*core.Movie),
		users:      make(map[int64]*core.User),
		genreIndex: make(map[string][]*core.Movie),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadOptions 描述一次完整加载的数据来源。
type LoadOptions struct {
	// MoviePath / LinkPath / RatingPath 三个平面文件的路径
	MoviePath  string
	LinkPath   string
	RatingPath string

	// Embeddings 初始嵌入数据源（文件或远端存储）
	Embeddings embedding.Source

	// Features 物品特征数据源；nil 表示不加载特征
	Features embedding.FeatureSource
}

// Load 按固定顺序执行加载：电影 → 链接 → 评分 → 电影嵌入 → 特征（可选）→ 用户嵌入。
// 任一阶段的数据源不可达都会中止整次加载并返回错误（启动期致命）。
// 单条坏记录只跳过并计数。Load 在进程生命周期内只允许执行一次。
func (s *Store) Load(ctx context.Context, opts LoadOptions) (*LoadStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: already loaded")
	}

	stats := &LoadStats{}

	var err error
	if stats.Movies, err = s.loadMovies(ctx, opts.MoviePath); err != nil {
		return nil, err
	}
	if stats.Links, err = s.loadLinks(ctx, opts.LinkPath); err != nil {
		return nil, err
	}
	if stats.Ratings, err = s.loadRatings(ctx, opts.RatingPath); err != nil {
		return nil, err
	}
	if opts.Embeddings != nil {
		if stats.MovieEmbeddings, err = s.attachEmbeddings(ctx, opts.Embeddings, embedding.KindMovie); err != nil {
			return nil, err
		}
	}
	if opts.Features != nil {
		if stats.Features, err = s.attachFeatures(ctx, opts.Features); err != nil {
			return nil, err
		}
	}
	if opts.Embeddings != nil {
		if stats.UserEmbeddings, err = s.attachEmbeddings(ctx, opts.Embeddings, embedding.KindUser); err != nil {
			return nil, err
		}
	}

	s.loaded = true
	return stats, nil
}

func (s *Store) loadMovies(ctx context.Context, path string) (StageStats, error) {
	s.logger.Printf("loading movie data from %s ...", path)
	var stats StageStats
	err := scanLines(ctx, path, func(line string) {
		rec, err := parser.ParseMovieLine(line)
		if err != nil {
			stats.Skipped++
			return
		}
		movie := core.NewMovie(rec.MovieID)
		movie.Title = rec.Title
		movie.ReleaseYear = rec.ReleaseYear
		for _, genre := range rec.Genres {
			movie.AddGenre(genre)
			s.genreIndex[genre] = append(s.genreIndex[genre], movie)
		}
		if _, exists := s.movies[rec.MovieID]; !exists {
			s.movieIDs = append(s.movieIDs, rec.MovieID)
		}
		s.movies[rec.MovieID] = movie // 重复 id 覆盖
		stats.Accepted++
	})
	if err != nil {
		return stats, err
	}
	s.logger.Printf("movie data loaded: %d movies, %d skipped", stats.Accepted, stats.Skipped)
	return stats, nil
}

func (s *Store) loadLinks(ctx context.Context, path string) (StageStats, error) {
	s.logger.Printf("loading link data from %s ...", path)
	var stats StageStats
	err := scanLines(ctx, path, func(line string) {
		rec, err := parser.ParseLinkLine(line)
		if err != nil {
			stats.Skipped++
			return
		}
		movie, ok := s.movies[rec.MovieID]
		if !ok {
			stats.Skipped++ // 引用了不存在的电影
			return
		}
		movie.IMDBID = rec.IMDBID
		movie.TMDBID = rec.TMDBID
		stats.Accepted++
	})
	if err != nil {
		return stats, err
	}
	s.logger.Printf("link data loaded: %d links, %d skipped", stats.Accepted, stats.Skipped)
	return stats, nil
}

func (s *Store) loadRatings(ctx context.Context, path string) (StageStats, error) {
	s.logger.Printf("loading rating data from %s ...", path)
	var stats StageStats
	err := scanLines(ctx, path, func(line string) {
		rating, err := parser.ParseRatingLine(line)
		if err != nil {
			stats.Skipped++
			return
		}
		movie, ok := s.movies[rating.MovieID]
		if !ok {
			stats.Skipped++ // 引用了不存在的电影，整条丢弃
			return
		}
		movie.AddRating(rating)
		user, ok := s.users[rating.UserID]
		if !ok {
			user = core.NewUser(rating.UserID)
			s.users[rating.UserID] = user
			s.userIDs = append(s.userIDs, rating.UserID)
		}
		user.AddRating(rating)
		stats.Accepted++
	})
	if err != nil {
		return stats, err
	}
	s.logger.Printf("rating data loaded: %d ratings, %d skipped", stats.Accepted, stats.Skipped)
	return stats, nil
}

func (s *Store) attachEmbeddings(ctx context.Context, src embedding.Source, kind embedding.EntityKind) (StageStats, error) {
	s.logger.Printf("loading %s embedding from %s source ...", kind, src.Name())
	entries, skipped, err := src.FetchAll(ctx, kind)
	if err != nil {
		return StageStats{}, err
	}
	stats := s.applyEmbeddings(entries, kind)
	stats.Skipped += skipped
	s.logger.Printf("%s embedding loaded: %d embeddings, %d skipped", kind, stats.Accepted, stats.Skipped)
	return stats, nil
}

// applyEmbeddings 把 (id, 向量) 对逐条挂到对应实体上；目录中不存在的 id 跳过。
func (s *Store) applyEmbeddings(entries []embedding.Entry, kind embedding.EntityKind) StageStats {
	var stats StageStats
	for _, e := range entries {
		switch kind {
		case embedding.KindMovie:
			movie, ok := s.movies[e.ID]
			if !ok {
				stats.Skipped++
				continue
			}
			movie.SetEmb(core.Embedding(e.Emb))
		case embedding.KindUser:
			user, ok := s.users[e.ID]
			if !ok {
				stats.Skipped++
				continue
			}
			user.SetEmb(core.Embedding(e.Emb))
		default:
			stats.Skipped++
			continue
		}
		stats.Accepted++
	}
	return stats
}

func (s *Store) attachFeatures(ctx context.Context, src embedding.FeatureSource) (StageStats, error) {
	s.logger.Printf("loading movie features from %s source ...", src.Name())
	entries, err := src.Fetch(ctx, s.MovieIDs())
	if err != nil {
		return StageStats{}, err
	}
	var stats StageStats
	for _, e := range entries {
		movie, ok := s.movies[e.ID]
		if !ok {
			stats.Skipped++
			continue
		}
		movie.SetFeatures(e.Features)
		stats.Accepted++
	}
	s.logger.Printf("movie features loaded: %d features, %d skipped", stats.Accepted, stats.Skipped)
	return stats, nil
}

// ReloadEmbeddings 针对当前目录重新挂载嵌入：先把两类嵌入全部拉到
// 暂存区（拉取失败不会污染在线数据），再逐实体原子替换向量字段。
// 电影与用户的拉取并发执行；目录的标识、标题、类型、评分均不受影响。
func (s *Store) ReloadEmbeddings(ctx context.Context, src embedding.Source) (*ReloadStats, error) {
	var (
		movieEntries, userEntries []embedding.Entry
		movieSkipped, userSkipped int
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		movieEntries, movieSkipped, err = src.FetchAll(egCtx, embedding.KindMovie)
		return err
	})
	eg.Go(func() error {
		var err error
		userEntries, userSkipped, err = src.FetchAll(egCtx, embedding.KindUser)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stats := &ReloadStats{}
	stats.MovieEmbeddings = s.applyEmbeddings(movieEntries, embedding.KindMovie)
	stats.MovieEmbeddings.Skipped += movieSkipped
	stats.UserEmbeddings = s.applyEmbeddings(userEntries, embedding.KindUser)
	stats.UserEmbeddings.Skipped += userSkipped

	s.logger.Printf("embeddings reloaded from %s source: %d movie / %d user embeddings, %d / %d skipped",
		src.Name(), stats.MovieEmbeddings.Accepted, stats.UserEmbeddings.Accepted,
		stats.MovieEmbeddings.Skipped, stats.UserEmbeddings.Skipped)
	return stats, nil
}

// MovieByID 返回指定电影，O(1)。
func (s *Store) MovieByID(id int64) (*core.Movie, bool) {
	m, ok := s.movies[id]
	return m, ok
}

// UserByID 返回指定用户，O(1)。
func (s *Store) UserByID(id int64) (*core.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// Movies 返回全部电影的快照副本，按加载顺序排列。
func (s *Store) Movies() []*core.Movie {
	out := make([]*core.Movie, 0, len(s.movieIDs))
	for _, id := range s.movieIDs {
		out = append(out, s.movies[id])
	}
	return out
}

// MoviesByGenre 返回声明了指定类型的电影副本（加载顺序）。
// 未知类型返回空切片；副本与索引隔离，调用方可安全排序。
func (s *Store) MoviesByGenre(genre string) []*core.Movie {
	indexed := s.genreIndex[genre]
	out := make([]*core.Movie, len(indexed))
	copy(out, indexed)
	return out
}

// MovieIDs 返回全部电影 id（加载顺序副本）。
func (s *Store) MovieIDs() []int64 {
	out := make([]int64, len(s.movieIDs))
	copy(out, s.movieIDs)
	return out
}

// MovieCount 返回电影总数。
func (s *Store) MovieCount() int { return len(s.movies) }

// UserCount 返回用户总数。
func (s *Store) UserCount() int { return len(s.users) }

// scanLines 逐行读取平面文件并跳过表头行；文件不可达返回 UNREACHABLE。
func scanLines(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnreachable,
			fmt.Sprintf("catalog: open %s: %v", path, err))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if first {
			first = false // 表头
			continue
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnreachable,
			fmt.Sprintf("catalog: read %s: %v", path, err))
	}
	return nil
}
