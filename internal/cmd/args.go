package cmd

import (
	"fmt"
	"strings"

	"github.com/allanpk716/src_fixer/internal/config"
)

const (
	AppName    = "src-fixer"
	AppVersion = "1.0.0"
)

// CommandLineArgs 命令行参数结构
type CommandLineArgs struct {
	ConfigFile      string
	Roots           []string
	Extensions      []string
	Encodings       []string
	ExcludePatterns []string
	RuleSet         string
	Verbose         bool
}

// ValidateArgs 验证并规范化命令行参数
func ValidateArgs(args *CommandLineArgs) error {
	if args == nil {
		return fmt.Errorf("命令行参数不能为空")
	}

	for i, root := range args.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("第 %d 个目录不能为空", i+1)
		}
	}

	for i, ext := range args.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" || ext == "." {
			return fmt.Errorf("第 %d 个扩展名不能为空", i+1)
		}
		// 自动补全扩展名前的点
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		args.Extensions[i] = ext
	}

	return nil
}

// LoadConfig 加载配置文件（未指定时使用内置默认配置），再用命令行参数覆盖
func LoadConfig(args *CommandLineArgs) (*config.Config, error) {
	if err := ValidateArgs(args); err != nil {
		return nil, fmt.Errorf("参数验证失败: %w", err)
	}

	manager := config.NewConfigManager()

	cfg := config.DefaultConfig()
	if args.ConfigFile != "" {
		loaded, err := manager.LoadConfig(args.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	if len(args.Roots) > 0 {
		cfg.Roots = args.Roots
	}
	if len(args.Extensions) > 0 {
		cfg.Extensions = args.Extensions
	}
	if len(args.Encodings) > 0 {
		cfg.Encodings = args.Encodings
	}
	if len(args.ExcludePatterns) > 0 {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, args.ExcludePatterns...)
	}
	if args.RuleSet != "" {
		cfg.RuleSet = args.RuleSet
		cfg.Rules = nil
	}

	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return cfg, nil
}
