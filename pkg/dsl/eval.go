// Package dsl 提供基于 CEL (Common Expression Language) 的电影过滤表达式。
// CEL 是 Google 开发的表达式语言，类型安全、高性能、线程安全。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/recserve/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("movie", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Filter 是编译后的电影过滤表达式，可对多部电影重复求值。
//
// 表达式语法（CEL 标准语法），movie 暴露以下属性：
//   - movie.id / movie.title / movie.releaseYear
//   - movie.genres（字符串列表）
//   - movie.ratingNumber / movie.averageRating
//
// 示例：
//   - `movie.releaseYear >= 2000`
//   - `"Comedy" in movie.genres && movie.averageRating > 3.5`
//   - `movie.ratingNumber > 100 || movie.title.contains("Star")`
type Filter struct {
	prg cel.Program
}

// Compile 编译过滤表达式；表达式只需编译一次即可并发复用。
func Compile(expr string) (*Filter, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("init cel env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", iss.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build program: %w", err)
	}
	return &Filter{prg: prg}, nil
}

// Match 对单部电影求值，表达式结果必须是布尔。
func (f *Filter) Match(m *core.Movie) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{"movie": movieVars(m)})
	if err != nil {
		return false, fmt.Errorf("eval expression: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression result is not boolean: %v", out.Value())
	}
	return b, nil
}

// movieVars 把电影的可查询属性展开为 CEL 激活变量。
func movieVars(m *core.Movie) map[string]any {
	return map[string]any{
		"id":            m.MovieID,
		"title":         m.Title,
		"releaseYear":   m.ReleaseYear,
		"genres":        m.Genres,
		"ratingNumber":  m.RatingNumber(),
		"averageRating": m.AverageRating(),
	}
}
