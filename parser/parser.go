// Package parser 是纯解析层：把一行定界文本转换为类型化记录。
// 无 I/O、无共享状态；格式错误返回 ErrMalformed，由调用方跳过并计数。
package parser

import (
	"strconv"
	"strings"

	"github.com/rushteam/recserve/core"
)

// ErrMalformed 表示单条记录格式错误（字段数不对或数值解析失败）。
// 此类错误永远不致命：调用方跳过该行并计数。
var ErrMalformed = core.NewDomainError(core.ModuleParser, core.ErrorCodeMalformed, "parser: malformed record")

// genreDelimiter 是类型字段内部的分隔符（"Comedy|Romance"）。
const genreDelimiter = "|"

// MovieRecord 是 movies 源文件中的一行：`id,title,pipe-delimited-genres`。
type MovieRecord struct {
	MovieID     int64
	Title       string
	ReleaseYear int // core.YearUnknown 表示标题无 "(YYYY)" 后缀
	Genres      []string
}

// LinkRecord 是 links 源文件中的一行：`movieId,imdbId,tmdbId`。
type LinkRecord struct {
	MovieID int64
	IMDBID  string
	TMDBID  string
}

// ParseMovieLine 解析 movies 行。字段数不为 3 或 id 非整数时返回 ErrMalformed。
// 标题末尾形如 "(YYYY)" 的年份后缀被剥离为 ReleaseYear；不匹配则整串作为标题。
func ParseMovieLine(line string) (*MovieRecord, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return nil, ErrMalformed
	}
	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}

	title, year := SplitTitleYear(strings.TrimSpace(fields[1]))

	rec := &MovieRecord{
		MovieID:     id,
		Title:       title,
		ReleaseYear: year,
	}
	if genres := strings.TrimSpace(fields[2]); genres != "" {
		rec.Genres = strings.Split(genres, genreDelimiter)
	}
	return rec, nil
}

// SplitTitleYear 从原始标题末尾提取固定形式 "(YYYY)" 的 4 位年份。
// 后缀不匹配该形式时，整串即为标题，年份为 core.YearUnknown。
func SplitTitleYear(rawTitle string) (string, int) {
	const suffixLen = 6 // "(YYYY)"
	if len(rawTitle) < suffixLen {
		return rawTitle, core.YearUnknown
	}
	suffix := rawTitle[len(rawTitle)-suffixLen:]
	if suffix[0] != '(' || suffix[suffixLen-1] != ')' {
		return rawTitle, core.YearUnknown
	}
	year, err := strconv.Atoi(suffix[1 : suffixLen-1])
	if err != nil || year < 0 {
		return rawTitle, core.YearUnknown
	}
	return strings.TrimSpace(rawTitle[:len(rawTitle)-suffixLen]), year
}

// ParseLinkLine 解析 links 行。字段数不为 3 或 movieId 非整数时返回 ErrMalformed。
func ParseLinkLine(line string) (*LinkRecord, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return nil, ErrMalformed
	}
	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}
	return &LinkRecord{
		MovieID: id,
		IMDBID:  strings.TrimSpace(fields[1]),
		TMDBID:  strings.TrimSpace(fields[2]),
	}, nil
}

// ParseRatingLine 解析 ratings 行：`userId,movieId,score,timestamp`。
// 字段数不为 4 或任一数值解析失败时返回 ErrMalformed。
func ParseRatingLine(line string) (*core.Rating, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return nil, ErrMalformed
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}
	movieID, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, ErrMalformed
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}
	return &core.Rating{
		UserID:    userID,
		MovieID:   movieID,
		Score:     score,
		Timestamp: ts,
	}, nil
}

// ParseEmbeddingLine 解析批量嵌入文件中的一行：`id:csv-floats`。
// 冒号分段数不为 2、id 非整数或任一浮点分量非法时返回 ErrMalformed。
func ParseEmbeddingLine(line string) (int64, core.Embedding, error) {
	parts := strings.Split(line, ":")
	if len(parts) != 2 {
		return 0, nil, ErrMalformed
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, nil, ErrMalformed
	}
	emb, err := core.ParseEmbedding(parts[1])
	if err != nil {
		return 0, nil, ErrMalformed
	}
	return id, emb, nil
}
