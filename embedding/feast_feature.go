package embedding

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rushteam/recserve/feast"
)

// FeastFeatureSource 是 Feast Feature Store 实现的 FeatureSource。
//
// 与 StoreFeatureSource 不同，Feast 无法枚举实体，
// 因此 Fetch 按目录传入的 ids 构建实体行逐批查询在线特征。
// 特征值统一转为字符串落入特征表，与 KV 存储来源保持同构。
type FeastFeatureSource struct {
	// Client Feast 在线特征客户端
	Client feast.Client

	// Features 要拉取的特征名称列表，例如 ["movie_stats:heat", "movie_stats:ctr"]
	Features []string

	// EntityName 实体 id 的列名，默认 "movie_id"
	EntityName string

	// BatchSize 单次请求的实体行数，默认 100
	BatchSize int
}

func NewFeastFeatureSource(client feast.Client, features []string) *FeastFeatureSource {
	return &FeastFeatureSource{
		Client:     client,
		Features:   features,
		EntityName: "movie_id",
		BatchSize:  100,
	}
}

func (s *FeastFeatureSource) Name() string { return "feast" }

func (s *FeastFeatureSource) Fetch(ctx context.Context, ids []int64) ([]FeatureEntry, error) {
	if len(ids) == 0 || len(s.Features) == 0 {
		return nil, nil
	}
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	entityName := s.EntityName
	if entityName == "" {
		entityName = "movie_id"
	}

	var entries []FeatureEntry
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		rows := make([]map[string]interface{}, len(batch))
		for i, id := range batch {
			rows[i] = map[string]interface{}{entityName: id}
		}

		resp, err := s.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
			Features:   s.Features,
			EntityRows: rows,
		})
		if err != nil {
			return nil, err
		}

		for i, vec := range resp.FeatureVectors {
			if len(vec.Values) == 0 {
				continue
			}
			features := make(map[string]string, len(vec.Values))
			for name, val := range vec.Values {
				features[name] = stringifyFeature(val)
			}
			entries = append(entries, FeatureEntry{ID: batch[i], Features: features})
		}
	}
	return entries, nil
}

// stringifyFeature 把 Feast 返回的特征值统一成字符串表示。
func stringifyFeature(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

var _ FeatureSource = (*FeastFeatureSource)(nil)
