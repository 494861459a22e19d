package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/allanpk716/src_fixer/internal/rules"
)

// GenerateTemplate 生成配置模板
func GenerateTemplate(templateType string) (*Config, error) {
	switch templateType {
	case "basic":
		return generateBasicTemplate(), nil
	case "advanced":
		return generateAdvancedTemplate(), nil
	default:
		return nil, fmt.Errorf("未知的模板类型: %s", templateType)
	}
}

// generateBasicTemplate 生成基础模板
func generateBasicTemplate() *Config {
	config := DefaultConfig()
	config.ProjectName = "示例项目"
	config.ExcludePatterns = []string{"build/*", "third_party/*"}
	return config
}

// generateAdvancedTemplate 生成高级模板：展开默认规则，便于逐条调整
func generateAdvancedTemplate() *Config {
	config := generateBasicTemplate()
	config.RuleSet = ""
	config.Rules = SpecsFromRuleSet(rules.Default())
	return config
}

// SpecsFromRuleSet 把规则集转换回配置形式
func SpecsFromRuleSet(set rules.RuleSet) []rules.Spec {
	specs := make([]rules.Spec, 0, len(set))
	for _, r := range set {
		specs = append(specs, rules.Spec{
			Name:        r.Name(),
			Pattern:     r.Pattern(),
			Replacement: r.Template(),
		})
	}
	return specs
}

// SaveConfig 保存配置到文件，按扩展名选择 YAML 或 JSON
func SaveConfig(config *Config, filePath string) error {
	if config == nil {
		return fmt.Errorf("配置不能为空")
	}

	// 验证配置
	if err := NewConfigManager().ValidateConfig(config); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	// 序列化配置
	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		return fmt.Errorf("配置文件必须是 YAML 或 JSON 格式，当前文件: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	// 确保目录存在
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 写入文件
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}
