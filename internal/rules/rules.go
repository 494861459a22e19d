package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder 控制流头部修复时替换原条件的固定占位符
const Placeholder = "condition"

// 预设规则集名称
const (
	PresetDefault            = "default"
	PresetPreserveConditions = "preserve-conditions"
)

// PatternRule 一条匹配-改写规则，创建后不可修改
type PatternRule struct {
	name     string
	matcher  *regexp.Regexp
	template string
}

// Spec 规则的配置形式，用于从配置文件编译规则
type Spec struct {
	Name        string `json:"name" yaml:"name"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// NewRule 编译一条规则。模式默认以多行模式编译，^ 和 $ 匹配行首行尾
func NewRule(name, pattern, template string) (PatternRule, error) {
	if strings.TrimSpace(name) == "" {
		return PatternRule{}, fmt.Errorf("规则名称不能为空")
	}
	if pattern == "" {
		return PatternRule{}, fmt.Errorf("规则 %s 的匹配模式不能为空", name)
	}

	re, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return PatternRule{}, fmt.Errorf("编译规则 %s 失败: %w", name, err)
	}

	// 模板只能引用本规则自己的捕获组
	if err := checkTemplate(re, template); err != nil {
		return PatternRule{}, fmt.Errorf("规则 %s 的替换模板无效: %w", name, err)
	}

	return PatternRule{name: name, matcher: re, template: template}, nil
}

// MustRule 同 NewRule，失败时 panic，仅用于内置规则
func MustRule(name, pattern, template string) PatternRule {
	r, err := NewRule(name, pattern, template)
	if err != nil {
		panic(err)
	}
	return r
}

// Name 规则名称
func (r PatternRule) Name() string { return r.name }

// Pattern 规则的匹配模式
func (r PatternRule) Pattern() string { return strings.TrimPrefix(r.matcher.String(), "(?m)") }

// Template 规则的替换模板
func (r PatternRule) Template() string { return r.template }

// Apply 在整段文本上执行全局替换，返回结果与匹配次数
func (r PatternRule) Apply(text string) (string, int) {
	hits := len(r.matcher.FindAllStringIndex(text, -1))
	if hits == 0 {
		return text, 0
	}
	return r.matcher.ReplaceAllString(text, r.template), hits
}

// RuleSet 有序规则集，顺序是配置的一部分：后面的规则处理前面规则的输出
type RuleSet []PatternRule

// Names 按顺序返回规则名称
func (rs RuleSet) Names() []string {
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, r.name)
	}
	return names
}

// Compile 按顺序编译配置中的规则
func Compile(specs []Spec) (RuleSet, error) {
	set := make(RuleSet, 0, len(specs))
	seen := make(map[string]bool)
	for i, s := range specs {
		if seen[s.Name] {
			return nil, fmt.Errorf("第 %d 条规则名称重复: %s", i+1, s.Name)
		}
		r, err := NewRule(s.Name, s.Pattern, s.Replacement)
		if err != nil {
			return nil, fmt.Errorf("第 %d 条规则无效: %w", i+1, err)
		}
		seen[s.Name] = true
		set = append(set, r)
	}
	return set, nil
}

// Preset 按名称返回内置规则集
func Preset(name string) (RuleSet, error) {
	switch name {
	case "", PresetDefault:
		return Default(), nil
	case PresetPreserveConditions:
		return PreserveConditions(), nil
	default:
		return nil, fmt.Errorf("未知的规则集: %s", name)
	}
}

// Default 内置规则集。if/while/for 头部的条件会被占位符替换；
// 通用 for 规则排在范围 for 规则之前，因此后者只对前者未改写的文本生效
func Default() RuleSet {
	return RuleSet{
		callTerminator(),
		MustRule("if-header", `\bif[ \t]*\([^)\n]+\)[ \t]*$`, "if ("+Placeholder+") {"),
		MustRule("while-header", `\bwhile[ \t]*\([^)\n]+\)[ \t]*$`, "while ("+Placeholder+") {"),
		MustRule("for-header", `\bfor[ \t]*\([^)\n]+\)[ \t]*$`, "for ("+Placeholder+") {"),
		rangeFor(),
		quotePlusIdent(),
		identPlusQuote(),
		stripNonASCII(),
	}
}

// PreserveConditions 与 Default 相同的修复，但保留原条件表达式，只补上缺失的左花括号
func PreserveConditions() RuleSet {
	return RuleSet{
		callTerminator(),
		rangeFor(),
		MustRule("if-header", `\bif[ \t]*\(([^)\n]+)\)[ \t]*$`, "if (${1}) {"),
		MustRule("while-header", `\bwhile[ \t]*\(([^)\n]+)\)[ \t]*$`, "while (${1}) {"),
		MustRule("for-header", `\bfor[ \t]*\(([^)\n]+)\)[ \t]*$`, "for (${1}) {"),
		quotePlusIdent(),
		identPlusQuote(),
		stripNonASCII(),
	}
}

func callTerminator() PatternRule {
	return MustRule("call-terminator", `(\w+)\(\)[ \t]*$`, "${1}();")
}

func rangeFor() PatternRule {
	return MustRule("range-for", `\bfor[ \t]*\([ \t]*auto[ \t]+(\w+)[ \t]*:[ \t]*(\w+)[ \t]*\)[ \t]*$`, "for (auto& ${1} : ${2}) {")
}

func quotePlusIdent() PatternRule {
	return MustRule("quote-plus-ident", `"[ \t]*\+[ \t]*(\w+)`, `" + ${1}`)
}

func identPlusQuote() PatternRule {
	return MustRule("ident-plus-quote", `(\w+)[ \t]*\+[ \t]*"`, `${1} + "`)
}

func stripNonASCII() PatternRule {
	return MustRule("strip-non-ascii", `[^\x00-\x7F]+`, "")
}

// checkTemplate 按 regexp.Expand 的规则解析模板中的引用：$$ 是字面量 $，
// $name 取最长的字母数字下划线序列，${name} 取花括号内的名称。
// 纯数字名称引用编号分组，否则引用命名分组
func checkTemplate(re *regexp.Regexp, template string) error {
	for len(template) > 0 {
		i := strings.IndexByte(template, '$')
		if i < 0 {
			break
		}
		template = template[i+1:]
		if strings.HasPrefix(template, "$") {
			template = template[1:]
			continue
		}
		name, rest, ok := extractRef(template)
		if !ok {
			// 非法引用按字面量输出
			continue
		}
		template = rest
		if !groupExists(re, name) {
			return fmt.Errorf("引用了不存在的捕获组 $%s", name)
		}
	}
	return nil
}

// extractRef 解析 $ 之后的组名，返回组名和剩余模板
func extractRef(s string) (string, string, bool) {
	brace := strings.HasPrefix(s, "{")
	if brace {
		s = s[1:]
	}
	i := 0
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", "", false
	}
	name, rest := s[:i], s[i:]
	if brace {
		if !strings.HasPrefix(rest, "}") {
			return "", "", false
		}
		rest = rest[1:]
	}
	return name, rest, true
}

func isNameByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func groupExists(re *regexp.Regexp, name string) bool {
	if num, err := strconv.Atoi(name); err == nil && (name == "0" || name[0] != '0') {
		return num <= re.NumSubexp()
	}
	return re.SubexpIndex(name) >= 0
}
