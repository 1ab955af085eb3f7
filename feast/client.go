package feast

import (
	"context"
	"time"
)

// Client 是 Feast Feature Store 的在线特征客户端接口。
//
// Feast 是一个开源的 Feature Store；目录层只消费它的在线特征能力
// （按实体 id 取当前特征值），训练侧/物化不在本模块范围内。
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["movie_stats:heat", "movie_stats:ctr"]
	//   - EntityRows: 实体行，例如 [{"movie_id": 1}, {"movie_id": 2}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表
	Features []string

	// EntityRows 实体行，每行一个实体 id 映射
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，默认取客户端配置）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientOption Feast 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig Feast 客户端配置
type ClientConfig struct {
	Endpoint string
	Project  string
	Timeout  time.Duration
}

// WithTimeout 配置选项：设置超时时间
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}
