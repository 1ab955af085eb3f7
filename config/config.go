// Package config 提供 YAML 配置加载与数据源装配。
// 进程引导（flag 解析、信号处理等）由使用方负责，本包只做配置到组件的翻译。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/recserve/model"
)

// Config 是服务的顶层配置结构。
type Config struct {
	Data      DataConfig    `yaml:"data"`
	Embedding SourceConfig  `yaml:"embedding"`
	Features  FeatureConfig `yaml:"features"`
	Models    ModelsConfig  `yaml:"models"`
}

// DataConfig 是三个平面文件的路径。
type DataConfig struct {
	Movies  string `yaml:"movies"`
	Links   string `yaml:"links"`
	Ratings string `yaml:"ratings"`
}

// SourceConfig 是嵌入数据源配置。
// Type 为 "file" 或 "redis"；Params 是源类型特定的自由参数
// （file: dir；redis: addr / db / timeout）。
type SourceConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// FeatureConfig 是物品特征加载配置。
// Type 为 "redis"（Hash 命名空间）或 "feast"（在线特征服务）。
type FeatureConfig struct {
	Enabled bool           `yaml:"enabled"`
	Type    string         `yaml:"type"`
	Params  map[string]any `yaml:"params"`
}

// ModelsConfig 是模型版本登记配置。
type ModelsConfig struct {
	Active   string          `yaml:"active"`
	Versions []VersionConfig `yaml:"versions"`
}

// VersionConfig 是单个模型版本的配置。
type VersionConfig struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	MovieEmb    string `yaml:"movie_emb"`
	UserEmb     string `yaml:"user_emb"`
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// BuildRegistry 根据配置构建模型版本登记表。
// 未配置版本时使用内置的默认版本集合。
func (c *ModelsConfig) BuildRegistry() (*model.Registry, error) {
	versions := make([]model.Version, 0, len(c.Versions))
	for _, vc := range c.Versions {
		versions = append(versions, model.Version{
			ID:             vc.ID,
			DisplayName:    vc.DisplayName,
			MovieEmbSource: vc.MovieEmb,
			UserEmbSource:  vc.UserEmb,
		})
	}
	if len(versions) == 0 {
		versions = model.DefaultVersions()
	}
	return model.NewRegistry(versions, c.Active)
}
