package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allanpk716/src_fixer/internal/cmd"
	"github.com/allanpk716/src_fixer/internal/config"
	"github.com/allanpk716/src_fixer/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app 保存各子命令共享的参数和日志
type app struct {
	args   cmd.CommandLineArgs
	logger *zap.Logger
	out    io.Writer
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           cmd.AppName,
		Short:         "批量修复 C++ 源文件中的编码和编译问题",
		Version:       cmd.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			logger, err := logging.New(a.args.Verbose)
			if err != nil {
				return fmt.Errorf("初始化日志失败: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.args.ConfigFile, "config", "c", "", "配置文件路径 (.yaml/.yml/.json)")
	flags.BoolVarP(&a.args.Verbose, "verbose", "v", false, "输出详细日志和未修改的文件")
	flags.StringSliceVar(&a.args.Extensions, "ext", nil, "源文件扩展名，如 .cpp,.h")
	flags.StringSliceVar(&a.args.Encodings, "encoding", nil, "按顺序尝试的文本编码，如 utf-8-sig,gbk")
	flags.StringSliceVar(&a.args.ExcludePatterns, "exclude", nil, "排除的文件名或相对路径模式")
	flags.StringVar(&a.args.RuleSet, "rules", "", "内置规则集: default 或 preserve-conditions")

	root.AddCommand(
		a.passCommand("encoding", "替换已知的中文注释和提示语", cmd.PassEncoding),
		a.passCommand("repair", "合并断行、修复常见语法问题并删除非 ASCII 字符", cmd.PassRepair),
		a.passCommand("all", "依次执行 encoding 和 repair", cmd.PassEncoding, cmd.PassRepair),
		a.rulesCommand(),
		a.initConfigCommand(),
	)
	return root
}

func (a *app) passCommand(use, short string, passes ...string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [dir...]",
		Short: short,
		RunE: func(c *cobra.Command, dirs []string) error {
			a.args.Roots = dirs
			cfg, err := cmd.LoadConfig(&a.args)
			if err != nil {
				return err
			}

			a.logger.Debug("配置已加载",
				zap.String("project", cfg.ProjectName),
				zap.Strings("roots", cfg.Roots),
				zap.Strings("extensions", cfg.Extensions),
				zap.Strings("encodings", cfg.Encodings))

			_, err = cmd.RunPasses(c.Context(), cfg, passes, a.out, a.args.Verbose, a.logger)
			return err
		},
	}
}

func (a *app) rulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "按执行顺序列出当前生效的重写规则",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig(&a.args)
			if err != nil {
				return err
			}
			set, err := config.NewConfigManager().GetRuleSet(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tPATTERN\tREPLACEMENT")
			for i, rule := range set {
				fmt.Fprintf(w, "%d\t%s\t%s\t%q\n", i+1, rule.Name(), rule.Pattern(), rule.Template())
			}
			return w.Flush()
		},
	}
}

func (a *app) initConfigCommand() *cobra.Command {
	var templateType string
	c := &cobra.Command{
		Use:   "init-config [path]",
		Short: "生成配置文件模板",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := "src_fixer.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			cfg, err := config.GenerateTemplate(templateType)
			if err != nil {
				return err
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "已生成配置文件: %s\n", path)
			return nil
		},
	}
	c.Flags().StringVarP(&templateType, "type", "t", "basic", "模板类型: basic 或 advanced")
	return c
}
