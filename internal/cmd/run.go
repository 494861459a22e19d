package cmd

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/allanpk716/src_fixer/internal/config"
	"github.com/allanpk716/src_fixer/internal/domain"
	"github.com/allanpk716/src_fixer/internal/merger"
	"github.com/allanpk716/src_fixer/internal/processor"
	"github.com/allanpk716/src_fixer/internal/rewriter"
	"github.com/allanpk716/src_fixer/internal/textcodec"
)

// 处理遍名称
const (
	PassEncoding = "encoding"
	PassRepair   = "repair"
)

// BuildProcessor 根据配置创建指定处理遍的处理器
func BuildProcessor(pass string, cfg *config.Config, logger *zap.Logger) (domain.FileProcessor, error) {
	codec, err := textcodec.New(cfg.Encodings)
	if err != nil {
		return nil, err
	}
	manager := config.NewConfigManager()

	switch pass {
	case PassEncoding:
		return processor.NewLiteralProcessor(codec, manager.GetLiteralTable(cfg), processor.WithLogger(logger)), nil
	case PassRepair:
		set, err := manager.GetRuleSet(cfg)
		if err != nil {
			return nil, err
		}
		pipeline := processor.NewPipeline(
			merger.New(cfg.Merge.ContinuationPrefixes),
			rewriter.New(set, logger),
		)
		return processor.NewRepairProcessor(codec, pipeline, processor.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("未知的处理遍: %s", pass)
	}
}

// RunPasses 依次执行各处理遍，每一遍都重新扫描目录
func RunPasses(ctx context.Context, cfg *config.Config, passes []string, out io.Writer, verbose bool, logger *zap.Logger) ([]*domain.ProcessResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := NewReporter(out, verbose)

	var results []*domain.ProcessResult
	var errs error
	for _, pass := range passes {
		proc, err := BuildProcessor(pass, cfg, logger)
		if err != nil {
			return results, err
		}

		files, err := FindSourceFiles(cfg.Roots, cfg.Extensions, cfg.ExcludePatterns, logger)
		if err != nil {
			return results, fmt.Errorf("查找源文件失败: %w", err)
		}

		logger.Info("开始处理",
			zap.String("pass", pass),
			zap.String("project", cfg.ProjectName),
			zap.Strings("roots", cfg.Roots),
			zap.Int("files", len(files)))

		result, err := ProcessBatchFiles(ctx, proc, files, reporter, logger)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			if ctx.Err() != nil {
				return results, err
			}
			errs = multierr.Append(errs, err)
		}
	}

	return results, errs
}
