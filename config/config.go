package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprec/engine"
)

// EngineConfig 是推荐引擎的文件化配置，对应一份 YAML：
//
//	redis:
//	  addr: "127.0.0.1:6379"
//	engine:
//	  cache_ttl_seconds: 3600
//	  weights:
//	    user_based: 0.3
//	    item_based: 0.3
//	    content_based: 0.25
//	    trending: 0.15
//
// 所有字段均可省略，省略时使用引擎内置默认值。
type EngineConfig struct {
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Assistant struct {
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"assistant"`

	Engine struct {
		CacheTTLSeconds  int             `yaml:"cache_ttl_seconds"`
		RecallTimeoutMS  int             `yaml:"recall_timeout_ms"`
		Weights          *engine.Weights `yaml:"weights"`
		MaxPerCategory   *int            `yaml:"max_per_category"`
		MaxPerBrand      *int            `yaml:"max_per_brand"`
		Rule            string          `yaml:"rule"`
	} `yaml:"engine"`
}

// Load 从 YAML 文件加载引擎配置。
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse 从 YAML 字节解析引擎配置。
func Parse(data []byte) (*EngineConfig, error) {
	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Options 将文件配置转换为引擎 Option 列表。
// 未填写的字段不产生 Option，由引擎默认值兜底。
func (c *EngineConfig) Options() []engine.Option {
	var opts []engine.Option
	if c == nil {
		return opts
	}
	if c.Engine.Weights != nil {
		opts = append(opts, engine.WithWeights(*c.Engine.Weights))
	}
	if c.Engine.CacheTTLSeconds > 0 {
		opts = append(opts, engine.WithCacheTTL(time.Duration(c.Engine.CacheTTLSeconds)*time.Second))
	}
	if c.Engine.RecallTimeoutMS > 0 {
		opts = append(opts, engine.WithRecallTimeout(time.Duration(c.Engine.RecallTimeoutMS)*time.Millisecond))
	}
	if sec := c.Assistant.TimeoutSeconds; sec > 0 {
		opts = append(opts, engine.WithAssistantTimeout(time.Duration(sec)*time.Second))
	}
	if c.Engine.MaxPerCategory != nil || c.Engine.MaxPerBrand != nil {
		perCategory, perBrand := 3, 2
		if c.Engine.MaxPerCategory != nil {
			perCategory = *c.Engine.MaxPerCategory
		}
		if c.Engine.MaxPerBrand != nil {
			perBrand = *c.Engine.MaxPerBrand
		}
		opts = append(opts, engine.WithDiversityCaps(perCategory, perBrand))
	}
	if c.Engine.Rule != "" {
		opts = append(opts, engine.WithRule(c.Engine.Rule))
	}
	return opts
}
