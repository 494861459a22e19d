package cmd

import (
	"fmt"
	"io"

	"github.com/allanpk716/src_fixer/internal/domain"
)

// Reporter 控制台报告，每个被修改或无法读取的文件一行，最后输出汇总
type Reporter struct {
	out     io.Writer
	verbose bool
}

// NewReporter 创建报告器，verbose 时也输出未修改的文件
func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

// Found 输出找到的文件数量
func (r *Reporter) Found(pass string, n int) {
	if pass == "repair" {
		fmt.Fprintf(r.out, "正在分析 %d 个文件...\n", n)
		return
	}
	fmt.Fprintf(r.out, "找到 %d 个待检查文件\n", n)
}

// File 输出单个文件的处理结果
func (r *Reporter) File(pass, path string, result *domain.FileResult, err error) {
	status := domain.StatusUnreadable
	if result != nil {
		status = result.Status
	}

	switch status {
	case domain.StatusModified:
		if pass == "repair" {
			fmt.Fprintf(r.out, "已修复编译问题: %s\n", path)
		} else {
			fmt.Fprintf(r.out, "已修复编码: %s\n", path)
		}
	case domain.StatusUnreadable:
		fmt.Fprintf(r.out, "无法读取文件: %s\n", path)
	case domain.StatusWriteFailed:
		fmt.Fprintf(r.out, "写入文件失败: %s (%v)\n", path, err)
	default:
		if r.verbose {
			fmt.Fprintf(r.out, "未修改: %s\n", path)
		}
	}
}

// Summary 输出汇总行
func (r *Reporter) Summary(result *domain.ProcessResult) {
	what := "编码"
	if result.Pass == "repair" {
		what = "编译问题"
	}
	fmt.Fprintf(r.out, "共找到 %d 个文件，修复了 %d 个文件的%s\n", result.FilesFound, result.FilesModified, what)
}
