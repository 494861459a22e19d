package merger

import (
	"strings"
	"unicode"
)

// LineState 行的完整性分类
type LineState int

const (
	// Complete 该行看起来是完整语句
	Complete LineState = iota
	// Incomplete 该行末尾暗示语句在下一行继续
	Incomplete
)

func (s LineState) String() string {
	if s == Incomplete {
		return "incomplete"
	}
	return "complete"
}

// DefaultContinuationPrefixes 下一行以这些前缀开头时才会被合并
var DefaultContinuationPrefixes = []string{`"`, "std::", "cout", "cin", "=", "+"}

// Merger 行续接合并器：单遍扫描，只向前看一行，合并后的内容不再参与判定
type Merger struct {
	prefixes []string
}

// New 创建合并器，prefixes 为空时使用 DefaultContinuationPrefixes
func New(prefixes []string) *Merger {
	if len(prefixes) == 0 {
		prefixes = DefaultContinuationPrefixes
	}
	cp := make([]string, len(prefixes))
	copy(cp, prefixes)
	return &Merger{prefixes: cp}
}

// Classify 对已去除行尾空白的行做完整性分类
func Classify(line string) LineState {
	if IsIncomplete(line) {
		return Incomplete
	}
	return Complete
}

// IsIncomplete 判断已去除行尾空白的行是否未结束，按以下顺序判定：
// 以引号结尾且引号总数为奇数；以 + , ( 结尾；含 :: 但不以 :: 结尾且不含 {
func IsIncomplete(line string) bool {
	if strings.HasSuffix(line, `"`) && strings.Count(line, `"`)%2 == 1 {
		return true
	}
	if strings.HasSuffix(line, "+") || strings.HasSuffix(line, ",") || strings.HasSuffix(line, "(") {
		return true
	}
	return strings.Contains(line, "::") && !strings.HasSuffix(line, "::") && !strings.Contains(line, "{")
}

// Continues 判断下一行（去除行首空白后）是否可以作为上一行的续行
func (m *Merger) Continues(next string) bool {
	next = strings.TrimLeftFunc(next, unicode.IsSpace)
	for _, p := range m.prefixes {
		if strings.HasPrefix(next, p) {
			return true
		}
	}
	return false
}

// Merge 合并被截断的行，返回新的行列表和合并次数。所有输出行都去除了行尾空白
func (m *Merger) Merge(lines []string) ([]string, int) {
	out := make([]string, 0, len(lines))
	merges := 0

	for i := 0; i < len(lines); i++ {
		line := trimRight(lines[i])

		if Classify(line) == Incomplete && i+1 < len(lines) && m.Continues(lines[i+1]) {
			line += " " + strings.TrimSpace(lines[i+1])
			merges++
			i++ // 下一行已被消费
		}

		out = append(out, line)
	}

	return out, merges
}

// MergeText 按 \n 拆分文本后合并，再以 \n 拼接
func (m *Merger) MergeText(text string) (string, int) {
	lines, merges := m.Merge(strings.Split(text, "\n"))
	return strings.Join(lines, "\n"), merges
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
