package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/allanpk716/src_fixer/internal/domain"
	"github.com/allanpk716/src_fixer/internal/processor"
)

// FindSourceFiles 按目录顺序递归查找扩展名匹配的源文件，不存在的目录会被跳过
func FindSourceFiles(roots, extensions, excludePatterns []string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	var files []string
	seen := make(map[string]bool)

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			logger.Warn("跳过不存在的目录", zap.String("root", root), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			logger.Warn("跳过非目录路径", zap.String("root", root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// 无法访问的子目录不影响其余文件
				logger.Warn("无法访问路径", zap.String("path", path), zap.Error(err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if rel != "." && isExcluded(filepath.ToSlash(rel), d.Name(), excludePatterns) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || !exts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// isExcluded 排除模式同时匹配相对路径和文件名
func isExcluded(rel, name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ProcessBatchFiles 逐个处理文件。无法读取的文件跳过；写入失败的文件记录后继续，
// 全部处理完后以合并错误返回
func ProcessBatchFiles(ctx context.Context, proc domain.FileProcessor, files []string, reporter *Reporter, logger *zap.Logger) (*domain.ProcessResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &domain.ProcessResult{
		Pass:       proc.Name(),
		FilesFound: len(files),
	}
	reporter.Found(proc.Name(), len(files))

	var writeErrs error
	for i, path := range files {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		logger.Debug("处理文件", zap.String("pass", proc.Name()), zap.Int("index", i+1), zap.Int("total", len(files)), zap.String("path", path))

		fileResult, err := proc.ProcessFile(ctx, path)
		if err != nil && ctx.Err() != nil {
			return result, err
		}
		reporter.File(proc.Name(), path, fileResult, err)

		if err != nil {
			result.Errors = append(result.Errors, err)
			var writeErr *processor.WriteError
			if errors.As(err, &writeErr) {
				result.WriteFailed++
				writeErrs = multierr.Append(writeErrs, err)
			} else {
				result.Unreadable++
			}
			continue
		}

		if fileResult.Status == domain.StatusModified {
			result.FilesModified++
		}
	}

	reporter.Summary(result)
	return result, writeErrs
}
