// Package serving 是暴露给外部请求层（HTTP 等）的门面：
// 目录查询、模型版本列表与切换。请求层只做协议编解码，不含领域逻辑。
package serving

import (
	"context"
	"fmt"

	"github.com/rushteam/recserve/catalog"
	"github.com/rushteam/recserve/core"
	"github.com/rushteam/recserve/model"
	"github.com/rushteam/recserve/query"
	"github.com/rushteam/recserve/reload"
)

// Service 组合目录、查询引擎、版本登记表与重载协调器。
type Service struct {
	Catalog  *catalog.Store
	Query    *query.Engine
	Registry *model.Registry
	Reloader *reload.Coordinator
}

func NewService(c *catalog.Store, r *model.Registry, rl *reload.Coordinator) *Service {
	return &Service{
		Catalog:  c,
		Query:    query.NewEngine(c),
		Registry: r,
		Reloader: rl,
	}
}

// ModelInfo 是版本列表中的一项。
type ModelInfo struct {
	Version        string `json:"version"`
	DisplayName    string `json:"displayName"`
	MovieEmbSource string `json:"movieEmbSource"`
	UserEmbSource  string `json:"userEmbSource"`
	Current        bool   `json:"isCurrent"`
}

// ListModelVersions 返回全部模型版本与当前激活版本 id。
func (s *Service) ListModelVersions() ([]ModelInfo, string) {
	statuses := s.Registry.List()
	out := make([]ModelInfo, len(statuses))
	for i, st := range statuses {
		out[i] = ModelInfo{
			Version:        st.ID,
			DisplayName:    st.DisplayName,
			MovieEmbSource: st.MovieEmbSource,
			UserEmbSource:  st.UserEmbSource,
			Current:        st.Current,
		}
	}
	return out, s.Registry.Active().ID
}

// SwitchResult 是一次模型切换的结构化结果：成功标记加人类可读消息。
// 不存在部分成功：失败时目录与激活版本保持原状。
type SwitchResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	CurrentModel string `json:"currentModel"`
}

// SwitchModelVersion 切换到指定模型版本。
// 版本未登记（UnknownVersion）或重载冲突（ReloadInFlight）等错误
// 都折叠为失败结果返回，不向请求层抛异常。
func (s *Service) SwitchModelVersion(ctx context.Context, versionID string) SwitchResult {
	if versionID == "" {
		return SwitchResult{
			Success:      false,
			Message:      "model version not specified",
			CurrentModel: s.Registry.Active().ID,
		}
	}

	stats, err := s.Reloader.Reload(ctx, versionID)
	if err != nil {
		return SwitchResult{
			Success:      false,
			Message:      fmt.Sprintf("model switch failed: %v", err),
			CurrentModel: s.Registry.Active().ID,
		}
	}

	ver := s.Registry.Active()
	return SwitchResult{
		Success: true,
		Message: fmt.Sprintf("switched to %s (%d movie / %d user embeddings)",
			ver.DisplayName, stats.MovieEmbeddings.Accepted, stats.UserEmbeddings.Accepted),
		CurrentModel: ver.ID,
	}
}

// GetCatalogPage 返回一页目录：genre 为空时在全目录上查询。
// sortKey 未识别时回退到按平均分排序。
func (s *Service) GetCatalogPage(genre string, limit int, sortKey string) []*core.Movie {
	key := query.ParseSortKey(sortKey)
	if genre == "" {
		return s.Query.Top(limit, key)
	}
	return s.Query.TopByGenre(genre, limit, key)
}

// GetMovie 按 id 查电影。
func (s *Service) GetMovie(id int64) (*core.Movie, bool) {
	return s.Catalog.MovieByID(id)
}

// GetUser 按 id 查用户。
func (s *Service) GetUser(id int64) (*core.User, bool) {
	return s.Catalog.UserByID(id)
}
