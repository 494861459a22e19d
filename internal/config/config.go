package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/allanpk716/src_fixer/internal/domain"
	"github.com/allanpk716/src_fixer/internal/rules"
	"github.com/allanpk716/src_fixer/internal/textcodec"
)

// Literal 表示字面量替换表中的一项
type Literal struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// MergeConfig 行合并配置
type MergeConfig struct {
	ContinuationPrefixes []string `json:"continuation_prefixes,omitempty" yaml:"continuation_prefixes,omitempty"`
}

// Config 表示完整的配置文件结构
type Config struct {
	ProjectName     string       `json:"project_name" yaml:"project_name"`
	Roots           []string     `json:"roots" yaml:"roots"`
	Extensions      []string     `json:"extensions" yaml:"extensions"`
	ExcludePatterns []string     `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty"`
	Encodings       []string     `json:"encodings" yaml:"encodings"`
	Literals        []Literal    `json:"literals" yaml:"literals"`
	Merge           MergeConfig  `json:"merge" yaml:"merge"`
	RuleSet         string       `json:"rule_set" yaml:"rule_set"`
	Rules           []rules.Spec `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// ConfigManager 配置管理接口
type ConfigManager interface {
	LoadConfig(filePath string) (*Config, error)
	ValidateConfig(config *Config) error
	GetLiteralTable(config *Config) []domain.Literal
	GetRuleSet(config *Config) (rules.RuleSet, error)
}

// configManager 配置管理器实现
type configManager struct{}

// NewConfigManager 创建新的配置管理器
func NewConfigManager() ConfigManager {
	return &configManager{}
}

// LoadConfig 从文件加载配置，文件中未出现的字段保留默认值
func (cm *configManager) LoadConfig(filePath string) (*Config, error) {
	if filePath == "" {
		return nil, fmt.Errorf("配置文件路径不能为空")
	}

	// 检查文件是否存在
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("配置文件不存在: %s", filePath)
	}

	// 读取文件内容
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("配置文件必须是 YAML 或 JSON 格式，当前文件: %s", ext)
	}

	// 验证配置
	if err := cm.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return config, nil
}

// ValidateConfig 验证配置的有效性
func (cm *configManager) ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("配置不能为空")
	}

	if config.ProjectName == "" {
		return fmt.Errorf("项目名称不能为空")
	}

	if len(config.Extensions) == 0 {
		return fmt.Errorf("扩展名列表不能为空")
	}
	for i, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("第 %d 个扩展名格式无效: %q", i+1, ext)
		}
	}

	for i, pattern := range config.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("第 %d 个排除模式无效: %q", i+1, pattern)
		}
	}

	if len(config.Encodings) == 0 {
		return fmt.Errorf("编码列表不能为空")
	}
	if _, err := textcodec.New(config.Encodings); err != nil {
		return err
	}

	// 检查字面量重复
	keySet := make(map[string]bool)
	for i, lit := range config.Literals {
		if lit.Key == "" {
			return fmt.Errorf("第 %d 个字面量的 key 不能为空", i+1)
		}
		if keySet[lit.Key] {
			return fmt.Errorf("字面量重复: %s", lit.Key)
		}
		keySet[lit.Key] = true
	}

	for i, prefix := range config.Merge.ContinuationPrefixes {
		if strings.TrimSpace(prefix) == "" {
			return fmt.Errorf("第 %d 个续行前缀不能为空", i+1)
		}
	}

	if _, err := cm.GetRuleSet(config); err != nil {
		return err
	}

	return nil
}

// GetLiteralTable 按声明顺序返回字面量替换表
func (cm *configManager) GetLiteralTable(config *Config) []domain.Literal {
	if config == nil {
		return nil
	}

	table := make([]domain.Literal, 0, len(config.Literals))
	for _, lit := range config.Literals {
		table = append(table, domain.Literal{From: lit.Key, To: lit.Value})
	}
	return table
}

// GetRuleSet 返回生效的规则集：配置了自定义规则时使用自定义规则，否则使用预设
func (cm *configManager) GetRuleSet(config *Config) (rules.RuleSet, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if len(config.Rules) > 0 {
		return rules.Compile(config.Rules)
	}
	return rules.Preset(config.RuleSet)
}
