package config

import (
	"github.com/allanpk716/src_fixer/internal/merger"
	"github.com/allanpk716/src_fixer/internal/rules"
	"github.com/allanpk716/src_fixer/internal/textcodec"
)

// DefaultConfig 返回内置默认配置
func DefaultConfig() *Config {
	return &Config{
		ProjectName: "src_fixer",
		Roots:       []string{"src", "include"},
		Extensions:  []string{".cpp", ".h"},
		Encodings:   append([]string(nil), textcodec.DefaultEncodings...),
		Literals:    DefaultLiterals(),
		Merge: MergeConfig{
			ContinuationPrefixes: append([]string(nil), merger.DefaultContinuationPrefixes...),
		},
		RuleSet: rules.PresetDefault,
	}
}

// DefaultLiterals 内置的中文注释与提示语替换表
func DefaultLiterals() []Literal {
	return []Literal{
		// User.h
		{Key: "// 喜欢的口味标签", Value: "// preferred taste tags"},
		{Key: "// 避免的口味标签", Value: "// avoided taste tags"},
		{Key: "// 过敏源", Value: "// allergens"},
		{Key: "// 体重(kg)", Value: "// weight (kg)"},
		{Key: "// 身高(cm)", Value: "// height (cm)"},
		{Key: "// 性别", Value: "// gender"},
		{Key: "// 活动水平：sedentary, light, moderate, active, very_active", Value: "// activity level: sedentary, light, moderate, active, very_active"},
		{Key: "// 每日卡路里目标", Value: "// daily calorie goal"},
		{Key: "// 每日蛋白质目标(g)", Value: "// daily protein goal (g)"},
		{Key: "// 每日碳水目标(g)", Value: "// daily carb goal (g)"},
		{Key: "// 每日脂肪目标(g)", Value: "// daily fat goal (g)"},

		// Food.h
		{Key: "// 口味标签：辣、甜、咸、酸等", Value: "// taste tags: spicy, sweet, salty, sour, etc."},
		{Key: "// 类别：主食、蔬菜、肉类、水果等", Value: "// category: staple food, vegetables, meat, fruit, etc."},
		{Key: "// 卡路里(kcal)", Value: "// calories (kcal)"},
		{Key: "// 蛋白质(g)", Value: "// protein (g)"},
		{Key: "// 碳水化合物(g)", Value: "// carbohydrates (g)"},
		{Key: "// 脂肪(g)", Value: "// fat (g)"},
		{Key: "// 纤维素(g)", Value: "// fiber (g)"},

		// Utils.cpp
		{Key: `"无效输入，请输入一个整数。"`, Value: `"Invalid input, please enter an integer."`},
		{Key: `"无效输入，请输入一个数字。"`, Value: `"Invalid input, please enter a number."`},
		{Key: `"输入不能为空，请重试。"`, Value: `"Input cannot be empty, please try again."`},
		{Key: `"按回车键继续..."`, Value: `"Press Enter to continue..."`},
	}
}
