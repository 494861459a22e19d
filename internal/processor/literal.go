package processor

import (
	"context"

	"go.uber.org/zap"

	"github.com/allanpk716/src_fixer/internal/domain"
	"github.com/allanpk716/src_fixer/internal/matcher"
	"github.com/allanpk716/src_fixer/internal/textcodec"
)

// literalProcessor 编码修复处理器：按替换表替换字面量
type literalProcessor struct {
	fileIO
	matcher domain.LiteralMatcher
	table   []domain.Literal
}

// NewLiteralProcessor 创建编码修复处理器
func NewLiteralProcessor(codec *textcodec.Codec, table []domain.Literal, opts ...Option) domain.FileProcessor {
	return &literalProcessor{
		fileIO:  newFileIO(codec, opts),
		matcher: matcher.NewLiteralMatcher(),
		table:   table,
	}
}

// Name 处理器名称
func (lp *literalProcessor) Name() string { return "encoding" }

// ProcessFile 替换单个文件中的字面量，内容无变化时不写回
func (lp *literalProcessor) ProcessFile(ctx context.Context, path string) (*domain.FileResult, error) {
	return lp.process(ctx, path, func(text string) (string, int, int) {
		if lp.logger.Core().Enabled(zap.DebugLevel) {
			lp.logMatches(path, text)
		}
		out, n := lp.matcher.ReplaceAll(text, lp.table)
		return out, n, 0
	})
}

// logMatches 按替换表顺序输出每个字面量的命中次数和位置
func (lp *literalProcessor) logMatches(path, text string) {
	offsets := make(map[string][]int)
	for _, m := range lp.matcher.FindMatches(text, lp.table) {
		offsets[m.Literal] = append(offsets[m.Literal], m.StartPos)
	}
	stats := matcher.GetMatchStats(text, lp.table)
	for _, lit := range lp.table {
		if stats[lit.From] == 0 {
			continue
		}
		lp.logger.Debug("字面量命中",
			zap.String("path", path),
			zap.String("literal", lit.From),
			zap.Int("count", stats[lit.From]),
			zap.Ints("offsets", offsets[lit.From]))
	}
}
