package matcher

import (
	"sort"
	"strings"

	"github.com/allanpk716/src_fixer/internal/domain"
)

// literalMatcher 字面量替换表匹配器实现
type literalMatcher struct{}

// NewLiteralMatcher 创建新的字面量匹配器
func NewLiteralMatcher() domain.LiteralMatcher {
	return &literalMatcher{}
}

// FindMatches 在原始内容中查找替换表各项的所有出现位置，按位置升序返回
func (lm *literalMatcher) FindMatches(content string, table []domain.Literal) []domain.Match {
	var matches []domain.Match

	for _, lit := range table {
		if lit.From == "" {
			continue
		}
		offset := 0
		for {
			idx := strings.Index(content[offset:], lit.From)
			if idx < 0 {
				break
			}
			start := offset + idx
			matches = append(matches, domain.Match{
				Literal:     lit.From,
				Replacement: lit.To,
				StartPos:    start,
				EndPos:      start + len(lit.From),
			})
			offset = start + len(lit.From)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].StartPos < matches[j].StartPos
	})

	return matches
}

// ReplaceAll 按替换表顺序依次替换，后面的项作用于前面项替换后的内容。返回结果和替换次数
func (lm *literalMatcher) ReplaceAll(content string, table []domain.Literal) (string, int) {
	total := 0
	for _, lit := range table {
		if lit.From == "" {
			continue
		}
		n := strings.Count(content, lit.From)
		if n == 0 {
			continue
		}
		content = strings.ReplaceAll(content, lit.From, lit.To)
		total += n
	}
	return content, total
}

// GetMatchStats 获取替换表各项在内容中的出现次数
func GetMatchStats(content string, table []domain.Literal) map[string]int {
	stats := make(map[string]int)
	for _, lit := range table {
		if lit.From == "" {
			continue
		}
		stats[lit.From] = strings.Count(content, lit.From)
	}
	return stats
}
