package core

import "sync"

// User 是目录中的用户实体：仅在首次出现于评分数据时创建。
// 并发模型与 Movie 相同：Ratings 在加载后只读，嵌入向量由 mu 保护可整体替换。
type User struct {
	UserID  int64
	Ratings []*Rating

	mu  sync.RWMutex
	emb Embedding
}

func NewUser(id int64) *User {
	return &User{UserID: id}
}

// AddRating 追加一条评分（仅加载阶段调用）。
func (u *User) AddRating(r *Rating) {
	u.Ratings = append(u.Ratings, r)
}

// RatingNumber 返回评分条数。
func (u *User) RatingNumber() int {
	return len(u.Ratings)
}

// AverageRating 返回该用户打分的算术平均，无评分时为 0。
func (u *User) AverageRating() float64 {
	if len(u.Ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range u.Ratings {
		sum += r.Score
	}
	return sum / float64(len(u.Ratings))
}

// Emb 返回当前嵌入向量；未加载时为 nil。
func (u *User) Emb() Embedding {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.emb
}

// SetEmb 整体替换嵌入向量。
func (u *User) SetEmb(emb Embedding) {
	u.mu.Lock()
	u.emb = emb
	u.mu.Unlock()
}
