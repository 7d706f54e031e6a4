// Package config 计算流程的配置。
//
// 配置文件查找顺序：
//  1. $ADMITTANCE_CONFIG
//  2. ./admittance.yaml
//
// 未找到配置文件时使用默认值。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"admittance/types"

	"gopkg.in/yaml.v3"
)

// Mode 计算模式
type Mode string

const (
	ModeFull    Mode = "full"    // 只构建全网导纳矩阵
	ModeReduced Mode = "reduced" // 降阶到保留节点并计算同步功率系数
)

// Config 配置
type Config struct {
	BaseMVA              float64      `yaml:"base_mva"`
	Mode                 Mode         `yaml:"mode"`
	Retain               RetainConfig `yaml:"retain"`
	MachineInternalNodes *bool        `yaml:"machine_internal_nodes,omitempty"`
	ExternalGrid         string       `yaml:"external_grid"`
	MaxCondition         float64      `yaml:"max_condition"`
	LogLevel             string       `yaml:"log_level"`
	Disturbed            string       `yaml:"disturbed,omitempty"` // 计算功率分配比例的扰动电机
}

// RetainConfig 降阶保留节点
type RetainConfig struct {
	Policy string   `yaml:"policy"` // explicit | generators
	Buses  []string `yaml:"buses,omitempty"`
}

// EnvPath 指定配置文件路径的环境变量
const EnvPath = "ADMITTANCE_CONFIG"

// FindConfigPath 返回第一个存在的配置文件路径，不存在时为空
func FindConfigPath() string {
	for _, p := range []string{os.Getenv(EnvPath), "admittance.yaml"} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load 查找并加载配置文件，未找到时返回默认配置
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath 从指定路径加载配置
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	return cfg, path, err
}

// Parse 解析 YAML 配置，补全默认值并校验
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig 默认配置：全网导纳矩阵，外部电网接参考点
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BaseMVA == 0 {
		c.BaseMVA = types.DefaultBaseMVA
	}
	if c.Mode == "" {
		c.Mode = ModeFull
	}
	if c.Retain.Policy == "" {
		if len(c.Retain.Buses) > 0 {
			c.Retain.Policy = types.RetainExplicit.String()
		} else {
			c.Retain.Policy = types.RetainGenerators.String()
		}
	}
	if c.ExternalGrid == "" {
		c.ExternalGrid = types.GridReference.String()
	}
	if c.MaxCondition == 0 {
		c.MaxCondition = types.MaxCondition
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if !(c.BaseMVA > 0) {
		return &types.InvalidParameterError{ID: "base_mva", Reason: "must be positive"}
	}
	if c.Mode != ModeFull && c.Mode != ModeReduced {
		return &types.InvalidParameterError{ID: "mode", Reason: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
	policy, err := c.RetainPolicy()
	if err != nil {
		return err
	}
	if policy == types.RetainExplicit && c.Mode == ModeReduced && len(c.Retain.Buses) == 0 {
		return &types.InvalidParameterError{ID: "retain.buses", Reason: "explicit policy needs at least one bus"}
	}
	if _, err := c.GridPolicy(); err != nil {
		return err
	}
	if !(c.MaxCondition > 1) {
		return &types.InvalidParameterError{ID: "max_condition", Reason: "must be greater than 1"}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// RetainPolicy 保留节点策略
func (c *Config) RetainPolicy() (types.RetainPolicy, error) {
	switch strings.ToLower(c.Retain.Policy) {
	case types.RetainExplicit.String():
		return types.RetainExplicit, nil
	case types.RetainGenerators.String():
		return types.RetainGenerators, nil
	}
	return 0, &types.InvalidParameterError{ID: "retain.policy", Reason: fmt.Sprintf("unknown policy %q", c.Retain.Policy)}
}

// GridPolicy 外部电网处理方式
func (c *Config) GridPolicy() (types.GridPolicy, error) {
	switch strings.ToLower(c.ExternalGrid) {
	case types.GridReference.String():
		return types.GridReference, nil
	case types.GridElide.String():
		return types.GridElide, nil
	}
	return 0, &types.InvalidParameterError{ID: "external_grid", Reason: fmt.Sprintf("unknown policy %q", c.ExternalGrid)}
}

// InternalNodes 是否为电机建立内部节点，未设置时降阶模式下默认开启
func (c *Config) InternalNodes() bool {
	if c.MachineInternalNodes != nil {
		return *c.MachineInternalNodes
	}
	return c.Mode == ModeReduced
}

// SlogLevel 日志级别
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, &types.InvalidParameterError{ID: "log_level", Reason: err.Error()}
	}
	return level, nil
}

// Save 写出配置文件
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
