package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Order(t *testing.T) {
	expected := []string{
		"call-terminator",
		"if-header",
		"while-header",
		"for-header",
		"range-for",
		"quote-plus-ident",
		"ident-plus-quote",
		"strip-non-ascii",
	}
	assert.Equal(t, expected, Default().Names())
}

func TestPreserveConditions_RangeForBeforeGenericFor(t *testing.T) {
	names := PreserveConditions().Names()
	assert.Less(t, indexOf(names, "range-for"), indexOf(names, "for-header"))
}

func TestPatternRule_Apply(t *testing.T) {
	tests := []struct {
		name     string
		rule     PatternRule
		text     string
		expected string
		hits     int
	}{
		{
			name:     "call terminator",
			rule:     callTerminator(),
			text:     "    init()",
			expected: "    init();",
			hits:     1,
		},
		{
			name:     "call terminator ignores call with arguments",
			rule:     callTerminator(),
			text:     "foo( bar);",
			expected: "foo( bar);",
		},
		{
			name:     "call terminator ignores terminated call",
			rule:     callTerminator(),
			text:     "init();",
			expected: "init();",
		},
		{
			name:     "range for binds by reference",
			rule:     rangeFor(),
			text:     "for (auto item : items)",
			expected: "for (auto& item : items) {",
			hits:     1,
		},
		{
			name:     "quote plus identifier",
			rule:     quotePlusIdent(),
			text:     `"name: "+name`,
			expected: `"name: " + name`,
			hits:     1,
		},
		{
			name:     "identifier plus quote",
			rule:     identPlusQuote(),
			text:     `name  +"!"`,
			expected: `name + "!"`,
			hits:     1,
		},
		{
			name:     "strip non ascii",
			rule:     stripNonASCII(),
			text:     "// 体重(kg)",
			expected: "// (kg)",
			hits:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hits := tt.rule.Apply(tt.text)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.hits, hits)
		})
	}
}

func TestDefault_HeaderRulesDiscardCondition(t *testing.T) {
	set := Default()
	tests := []struct {
		rule     string
		text     string
		expected string
	}{
		{"if-header", "if (x > 0)", "if (condition) {"},
		{"while-header", "while (!done)", "while (condition) {"},
		{"for-header", "for (int i = 0; i < n; i++)", "for (condition) {"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			r := find(t, set, tt.rule)
			got, _ := r.Apply(tt.text)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPreserveConditions_HeaderRulesKeepCondition(t *testing.T) {
	r := find(t, PreserveConditions(), "if-header")
	got, hits := r.Apply("if (x > 0)")
	assert.Equal(t, "if (x > 0) {", got)
	assert.Equal(t, 1, hits)
}

func TestHeaderRules_StayOnOneLine(t *testing.T) {
	r := find(t, Default(), "if-header")

	// 条件跨行时不匹配，后续空行也不会被吞掉
	text := "if (a &&\n    b)\n\nnext();"
	got, hits := r.Apply(text)
	assert.Equal(t, text, got)
	assert.Zero(t, hits)

	got, _ = r.Apply("if (ok)\n\nnext();")
	assert.Equal(t, "if (condition) {\n\nnext();", got)
}

func TestHeaderRules_RequireKeyword(t *testing.T) {
	r := find(t, Default(), "if-header")
	got, hits := r.Apply("notif (x)")
	assert.Equal(t, "notif (x)", got)
	assert.Zero(t, hits)
}

func TestNewRule_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ruleName string
		pattern  string
		template string
	}{
		{"empty name", "", `x`, ""},
		{"empty pattern", "r", "", ""},
		{"invalid regex", "r", `(`, ""},
		{"unknown capture group", "r", `(a)`, "${2}"},
		{"digits followed by letters name a group", "r", `(a)`, "$1x"},
		{"unknown named group", "r", `(?P<word>a)`, "${name}"},
		{"leading zero is a name", "r", `(a)`, "${01}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRule(tt.ruleName, tt.pattern, tt.template)
			assert.Error(t, err)
		})
	}
}

func TestNewRule_TemplateReferences(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		template string
		input    string
		expected string
	}{
		{"escaped dollar is literal", `(a)`, "$$2", "a", "$2"},
		{"escaped dollar before group", `(a)`, "$$$1", "a", "$a"},
		{"braced number", `(a)(b)`, "${2}${1}", "ab", "ba"},
		{"named group", `(?P<word>\w+)!`, "[$word]", "hi!", "[hi]"},
		{"lone dollar is literal", `a`, "$ x", "a", "$ x"},
		{"unterminated brace is literal", `(a)`, "${1", "a", "${1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRule("r", tt.pattern, tt.template)
			require.NoError(t, err)
			got, _ := r.Apply(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPatternRule_Pattern(t *testing.T) {
	r := MustRule("r", `a+$`, "b")
	assert.Equal(t, `a+$`, r.Pattern())
	assert.Equal(t, "b", r.Template())
	assert.Equal(t, "r", r.Name())
}

func TestCompile(t *testing.T) {
	set, err := Compile([]Spec{
		{Name: "first", Pattern: `a`, Replacement: "b"},
		{Name: "second", Pattern: `b`, Replacement: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, set.Names())

	_, err = Compile([]Spec{
		{Name: "dup", Pattern: `a`},
		{Name: "dup", Pattern: `b`},
	})
	assert.Error(t, err)
}

func TestPreset(t *testing.T) {
	set, err := Preset("")
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), set.Names())

	set, err = Preset(PresetPreserveConditions)
	require.NoError(t, err)
	assert.Equal(t, PreserveConditions().Names(), set.Names())

	_, err = Preset("aggressive")
	assert.Error(t, err)
}

func find(t *testing.T, set RuleSet, name string) PatternRule {
	t.Helper()
	for _, r := range set {
		if r.Name() == name {
			return r
		}
	}
	t.Fatalf("规则 %s 不存在", name)
	return PatternRule{}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
