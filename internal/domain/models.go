package domain

import "context"

// FileProcessor 单个源文件的处理器（编码修复或语法修复）
type FileProcessor interface {
	Name() string
	ProcessFile(ctx context.Context, path string) (*FileResult, error)
}

// LiteralMatcher 字面量替换表匹配器接口
type LiteralMatcher interface {
	FindMatches(content string, table []Literal) []Match
	ReplaceAll(content string, table []Literal) (string, int)
}

// Literal 字面量替换表中的一项，按声明顺序依次应用
type Literal struct {
	From string
	To   string
}

// Match 表示一个匹配项
type Match struct {
	Literal     string // 原始文本
	Replacement string // 替换值
	StartPos    int    // 开始位置
	EndPos      int    // 结束位置
}

// FileStatus 单个文件的处理结果
type FileStatus int

const (
	StatusUnchanged FileStatus = iota
	StatusModified
	StatusUnreadable
	StatusWriteFailed
)

func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusUnreadable:
		return "unreadable"
	case StatusWriteFailed:
		return "write-failed"
	default:
		return "unchanged"
	}
}

// FileResult 单个文件的处理结果
type FileResult struct {
	Path         string
	Status       FileStatus
	Encoding     string // 解码时实际使用的编码
	Replacements int    // 规则或字面量命中次数
	Merges       int    // 行合并次数
}

// ProcessResult 一次批处理的汇总
type ProcessResult struct {
	Pass          string
	FilesFound    int
	FilesModified int
	Unreadable    int
	WriteFailed   int
	Errors        []error
}
