package core

// Rating 是一条用户对电影的评分记录。
// Score 的取值范围由数据源保证，本层不截断；Timestamp 为秒级时间戳，不校验顺序。
type Rating struct {
	UserID    int64
	MovieID   int64
	Score     float64
	Timestamp int64
}
