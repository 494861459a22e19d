package rewriter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/allanpk716/src_fixer/internal/rules"
)

// RuleHit 单条规则在一次改写中的匹配次数
type RuleHit struct {
	Rule string
	Hits int
}

// Rewriter 按顺序执行规则集，每条规则处理上一条规则的输出
type Rewriter struct {
	rules  rules.RuleSet
	logger *zap.Logger
}

// New 创建改写器，规则集由调用方注入
func New(set rules.RuleSet, logger *zap.Logger) *Rewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{rules: set, logger: logger}
}

// Rules 返回正在使用的规则集
func (r *Rewriter) Rules() rules.RuleSet {
	return r.rules
}

// Rewrite 依次应用所有规则，返回结果和命中的规则统计
func (r *Rewriter) Rewrite(text string) (string, []RuleHit) {
	var hits []RuleHit
	for _, rule := range r.rules {
		var n int
		text, n = rule.Apply(text)
		if n > 0 {
			hits = append(hits, RuleHit{Rule: rule.Name(), Hits: n})
			r.logger.Debug("规则命中", zap.String("rule", rule.Name()), zap.Int("hits", n))
		}
	}
	return text, hits
}

// StripNonASCII 删除所有码点不小于 128 的字符
func StripNonASCII(text string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7F {
			return -1
		}
		return r
	}, text)
}
