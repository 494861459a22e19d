package processor

import (
	"context"

	"github.com/allanpk716/src_fixer/internal/domain"
	"github.com/allanpk716/src_fixer/internal/merger"
	"github.com/allanpk716/src_fixer/internal/rewriter"
	"github.com/allanpk716/src_fixer/internal/textcodec"
)

// Pipeline 语法修复流水线：行合并 → 规则改写 → 删除非 ASCII 字符
type Pipeline struct {
	merger   *merger.Merger
	rewriter *rewriter.Rewriter
}

// NewPipeline 创建修复流水线
func NewPipeline(m *merger.Merger, rw *rewriter.Rewriter) *Pipeline {
	return &Pipeline{merger: m, rewriter: rw}
}

// Run 对整段文本执行修复，返回结果、规则命中统计和合并次数
func (p *Pipeline) Run(text string) (string, []rewriter.RuleHit, int) {
	merged, merges := p.merger.MergeText(text)
	rewritten, hits := p.rewriter.Rewrite(merged)
	return rewriter.StripNonASCII(rewritten), hits, merges
}

// repairProcessor 语法修复处理器
type repairProcessor struct {
	fileIO
	pipeline *Pipeline
}

// NewRepairProcessor 创建语法修复处理器
func NewRepairProcessor(codec *textcodec.Codec, pipeline *Pipeline, opts ...Option) domain.FileProcessor {
	return &repairProcessor{
		fileIO:   newFileIO(codec, opts),
		pipeline: pipeline,
	}
}

// Name 处理器名称
func (rp *repairProcessor) Name() string { return "repair" }

// ProcessFile 修复单个文件，内容无变化时不写回
func (rp *repairProcessor) ProcessFile(ctx context.Context, path string) (*domain.FileResult, error) {
	return rp.process(ctx, path, func(text string) (string, int, int) {
		out, hits, merges := rp.pipeline.Run(text)
		total := 0
		for _, h := range hits {
			total += h.Hits
		}
		return out, total, merges
	})
}
