package processor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/allanpk716/src_fixer/internal/domain"
	"github.com/allanpk716/src_fixer/internal/storage"
	"github.com/allanpk716/src_fixer/internal/textcodec"
)

// WriteError 写回文件失败
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("写入文件失败 %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer 持久化函数，默认使用 storage.WriteFileAtomic
type Writer func(path string, data []byte, perm os.FileMode) error

// Option 处理器选项
type Option func(*fileIO)

// WithWriter 替换持久化函数
func WithWriter(w Writer) Option {
	return func(f *fileIO) {
		if w != nil {
			f.write = w
		}
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(f *fileIO) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// fileIO 两种处理器共用的读、比较、写回逻辑
type fileIO struct {
	codec  *textcodec.Codec
	write  Writer
	logger *zap.Logger
}

func newFileIO(codec *textcodec.Codec, opts []Option) fileIO {
	f := fileIO{
		codec:  codec,
		write:  storage.WriteFileAtomic,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// source 解码后的文件内容，换行统一为 \n
type source struct {
	text     string
	encoding string
	crlf     bool
}

// read 读取并解码文件，失败时返回 textcodec.ErrUndecodable 或读取错误。
// \r\n 被转换为 \n，转换和比较都在统一换行后的文本上进行
func (f fileIO) read(path string) (source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("读取文件失败: %w", err)
	}
	text, enc, err := f.codec.Decode(data)
	if err != nil {
		return source{}, fmt.Errorf("解码文件 %s 失败: %w", path, err)
	}
	crlf := strings.Contains(text, "\r\n")
	if crlf {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	return source{text: text, encoding: enc, crlf: crlf}, nil
}

// persist 内容有变化时以带 BOM 的 UTF-8 写回，原文件使用 \r\n 时恢复 \r\n。返回是否写入
func (f fileIO) persist(path string, src source, updated string) (bool, error) {
	if updated == src.text {
		return false, nil
	}
	if src.crlf {
		updated = strings.ReplaceAll(updated, "\n", "\r\n")
	}
	data, err := textcodec.EncodeWithBOM(updated)
	if err != nil {
		return false, &WriteError{Path: path, Err: err}
	}
	if err := f.write(path, data, 0644); err != nil {
		return false, &WriteError{Path: path, Err: err}
	}
	return true, nil
}

// process 执行 读取 → 转换 → 比较 → 写回
func (f fileIO) process(ctx context.Context, path string, transform func(string) (string, int, int)) (*domain.FileResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result := &domain.FileResult{Path: path}

	src, err := f.read(path)
	if err != nil {
		result.Status = domain.StatusUnreadable
		return result, err
	}
	result.Encoding = src.encoding

	updated, replacements, merges := transform(src.text)
	result.Replacements = replacements
	result.Merges = merges

	written, err := f.persist(path, src, updated)
	if err != nil {
		result.Status = domain.StatusWriteFailed
		return result, err
	}
	if written {
		result.Status = domain.StatusModified
	}

	f.logger.Debug("文件处理完成",
		zap.String("path", path),
		zap.String("encoding", src.encoding),
		zap.Bool("crlf", src.crlf),
		zap.Stringer("status", result.Status),
		zap.Int("replacements", replacements),
		zap.Int("merges", merges))

	return result, nil
}
