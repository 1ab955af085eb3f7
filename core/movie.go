package core

import "sync"

// YearUnknown 表示标题中没有 "(YYYY)" 后缀、上映年份未知。
const YearUnknown = 0

// Movie 是目录中的物品实体：元信息、类型标签、评分列表、可选的嵌入向量与特征。
//
// 并发模型：
//   - 标识 / 标题 / 类型 / 外部引用仅在初始加载阶段写入，之后只读，无需加锁
//   - Ratings 仅在加载阶段追加，之后只读
//   - 嵌入与特征可在运行期被整体替换（模型重载），由 mu 保护，
//     读者只会看到完整的旧向量或完整的新向量
type Movie struct {
	MovieID     int64
	Title       string
	ReleaseYear int // YearUnknown 表示未知
	Genres      []string
	IMDBID      string
	TMDBID      string
	Ratings     []*Rating

	mu       sync.RWMutex
	emb      Embedding
	features map[string]string
}

func NewMovie(id int64) *Movie {
	return &Movie{
		MovieID:     id,
		ReleaseYear: YearUnknown,
	}
}

// AddGenre 追加一个类型标签，保持出现顺序。
func (m *Movie) AddGenre(genre string) {
	m.Genres = append(m.Genres, genre)
}

// AddRating 追加一条评分（仅加载阶段调用）。
func (m *Movie) AddRating(r *Rating) {
	m.Ratings = append(m.Ratings, r)
}

// RatingNumber 返回评分条数。
func (m *Movie) RatingNumber() int {
	return len(m.Ratings)
}

// AverageRating 返回算术平均分，无评分时为 0。
func (m *Movie) AverageRating() float64 {
	if len(m.Ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.Ratings {
		sum += r.Score
	}
	return sum / float64(len(m.Ratings))
}

// Emb 返回当前嵌入向量；未加载时为 nil。
func (m *Movie) Emb() Embedding {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emb
}

// SetEmb 整体替换嵌入向量。
func (m *Movie) SetEmb(emb Embedding) {
	m.mu.Lock()
	m.emb = emb
	m.mu.Unlock()
}

// Features 返回当前特征表；未启用特征加载时为 nil。
func (m *Movie) Features() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.features
}

// SetFeatures 整体替换特征表。
func (m *Movie) SetFeatures(features map[string]string) {
	m.mu.Lock()
	m.features = features
	m.mu.Unlock()
}
