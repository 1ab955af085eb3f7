package query

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/recserve/catalog"
	"github.com/rushteam/recserve/core"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// newTestEngine 构建一个小目录：
//
//	id 1 Alpha (1995) Comedy        avg 5.0, 2 ratings
//	id 2 Beta  (2000) Comedy|Drama  avg 3.0, 1 rating
//	id 3 Gamma (2005) Comedy        avg 4.0, 3 ratings
//	id 4 Delta (2010) Drama         avg 2.0, 1 rating
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	s := catalog.NewStore(catalog.WithLogger(log.New(io.Discard, "", 0)))
	_, err := s.Load(context.Background(), catalog.LoadOptions{
		MoviePath: writeFixture(t, dir, "movies.csv",
			"movieId,title,genres\n"+
				"1,Alpha (1995),Comedy\n"+
				"2,Beta (2000),Comedy|Drama\n"+
				"3,Gamma (2005),Comedy\n"+
				"4,Delta (2010),Drama\n"),
		LinkPath: writeFixture(t, dir, "links.csv", "movieId,imdbId,tmdbId\n"),
		RatingPath: writeFixture(t, dir, "ratings.csv",
			"userId,movieId,rating,timestamp\n"+
				"1,1,5.0,1\n"+
				"2,1,5.0,2\n"+
				"1,2,3.0,3\n"+
				"1,3,4.0,4\n"+
				"2,3,4.0,5\n"+
				"3,3,4.0,6\n"+
				"2,4,2.0,7\n"),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return NewEngine(s)
}

func movieIDsOf(movies []*core.Movie) []int64 {
	ids := make([]int64, len(movies))
	for i, m := range movies {
		ids[i] = m.MovieID
	}
	return ids
}

func assertOrder(t *testing.T, got []*core.Movie, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", movieIDsOf(got), want)
	}
	for i, id := range want {
		if got[i].MovieID != id {
			t.Fatalf("got %v, want %v", movieIDsOf(got), want)
		}
	}
}

func TestTop(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name  string
		limit int
		key   SortKey
		want  []int64
	}{
		{name: "by rating", limit: 10, key: SortByRating, want: []int64{1, 3, 2, 4}},
		{name: "by rating truncated", limit: 2, key: SortByRating, want: []int64{1, 3}},
		// 同为 1 条评分的 2 和 4 保持加载顺序
		{name: "by popularity keeps ties stable", limit: 10, key: SortByPopularity, want: []int64{3, 1, 2, 4}},
		{name: "by release year", limit: 2, key: SortByReleaseYear, want: []int64{4, 3}},
		{name: "zero limit", limit: 0, key: SortByRating, want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertOrder(t, e.Top(tt.limit, tt.key), tt.want)
		})
	}
}

func TestTopByGenre(t *testing.T) {
	e := newTestEngine(t)

	assertOrder(t, e.TopByGenre("Comedy", 2, SortByRating), []int64{1, 3})
	assertOrder(t, e.TopByGenre("Drama", 10, SortByRating), []int64{2, 4})
	// limit 超过可用数量返回全部
	assertOrder(t, e.TopByGenre("Comedy", 100, SortByRating), []int64{1, 3, 2})
	// 未知类型返回空，不报错
	assertOrder(t, e.TopByGenre("Horror", 10, SortByRating), []int64{})
}

func TestTopFiltered(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.TopFiltered(`movie.releaseYear >= 2000`, 10, SortByRating)
	if err != nil {
		t.Fatalf("TopFiltered() error = %v", err)
	}
	assertOrder(t, got, []int64{3, 2, 4})

	got, err = e.TopByGenreFiltered("Comedy", `movie.averageRating > 3.5`, 10, SortByRating)
	if err != nil {
		t.Fatalf("TopByGenreFiltered() error = %v", err)
	}
	assertOrder(t, got, []int64{1, 3})

	if _, err := e.TopFiltered(`movie.releaseYear >=`, 10, SortByRating); err == nil {
		t.Error("TopFiltered() with invalid expression should fail")
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"rating", SortByRating},
		{"popularity", SortByPopularity},
		{"releaseYear", SortByReleaseYear},
		{"", SortByRating},
		{"whatever", SortByRating},
	}
	for _, tt := range tests {
		if got := ParseSortKey(tt.in); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQueriesDoNotDisturbEachOther(t *testing.T) {
	e := newTestEngine(t)

	byYear := e.Top(10, SortByReleaseYear)
	byRating := e.Top(10, SortByRating)
	assertOrder(t, byYear, []int64{4, 3, 2, 1})
	assertOrder(t, byRating, []int64{1, 3, 2, 4})
	// 再次查询结果不受此前排序影响
	assertOrder(t, e.Top(10, SortByReleaseYear), []int64{4, 3, 2, 1})
}
