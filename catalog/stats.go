package catalog

// StageStats 是单个加载阶段的计数：接受与跳过的记录数。
// 跳过包括格式错误的行与引用了目录中不存在实体的记录。
type StageStats struct {
	Accepted int
	Skipped  int
}

// LoadStats 汇总一次完整加载各阶段的计数。
type LoadStats struct {
	Movies          StageStats
	Links           StageStats
	Ratings         StageStats
	MovieEmbeddings StageStats
	Features        StageStats
	UserEmbeddings  StageStats
}

// ReloadStats 汇总一次嵌入重载的计数。
type ReloadStats struct {
	MovieEmbeddings StageStats
	UserEmbeddings  StageStats
}
