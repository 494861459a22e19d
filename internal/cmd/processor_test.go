package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/allanpk716/src_fixer/internal/config"
	"github.com/allanpk716/src_fixer/internal/domain"
	"github.com/allanpk716/src_fixer/internal/processor"
	"github.com/allanpk716/src_fixer/internal/textcodec"
)

// MockFileProcessor 用于测试的模拟处理器
type MockFileProcessor struct {
	results map[string]domain.FileStatus
	calls   []string
}

func (m *MockFileProcessor) Name() string { return PassRepair }

func (m *MockFileProcessor) ProcessFile(ctx context.Context, path string) (*domain.FileResult, error) {
	m.calls = append(m.calls, path)
	status := m.results[path]
	result := &domain.FileResult{Path: path, Status: status}
	switch status {
	case domain.StatusUnreadable:
		return result, fmt.Errorf("解码失败: %w", textcodec.ErrUndecodable)
	case domain.StatusWriteFailed:
		return result, &processor.WriteError{Path: path, Err: errors.New("permission denied")}
	}
	return result, nil
}

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestFindSourceFiles(t *testing.T) {
	root := makeTree(t, map[string]string{
		"src/main.cpp":          "",
		"src/util/Utils.CPP":    "",
		"src/notes.txt":         "",
		"include/User.h":        "",
		"src/build/gen.cpp":     "",
		"src/util/gen_table.h":  "",
		"include/detail/Food.h": "",
	})

	roots := []string{filepath.Join(root, "src"), filepath.Join(root, "include"), filepath.Join(root, "missing")}
	files, err := FindSourceFiles(roots, []string{".cpp", ".h"}, []string{"build", "gen_*"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"src/main.cpp",
		"src/util/Utils.CPP",
		"include/User.h",
		"include/detail/Food.h",
	}, rel)
}

func TestFindSourceFiles_OverlappingRoots(t *testing.T) {
	root := makeTree(t, map[string]string{"a/x.h": ""})
	files, err := FindSourceFiles([]string{root, filepath.Join(root, "a")}, []string{".h"}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestProcessBatchFiles(t *testing.T) {
	mock := &MockFileProcessor{results: map[string]domain.FileStatus{
		"a.cpp": domain.StatusModified,
		"b.cpp": domain.StatusUnchanged,
		"c.cpp": domain.StatusUnreadable,
		"d.cpp": domain.StatusWriteFailed,
		"e.h":   domain.StatusModified,
	}}
	files := []string{"a.cpp", "b.cpp", "c.cpp", "d.cpp", "e.h"}

	var out bytes.Buffer
	result, err := ProcessBatchFiles(context.Background(), mock, files, NewReporter(&out, false), zaptest.NewLogger(t))

	// 写入失败不会中断批处理，但会以错误返回
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Equal(t, files, mock.calls)

	assert.Equal(t, 5, result.FilesFound)
	assert.Equal(t, 2, result.FilesModified)
	assert.Equal(t, 1, result.Unreadable)
	assert.Equal(t, 1, result.WriteFailed)
	assert.Len(t, result.Errors, 2)

	report := out.String()
	assert.Contains(t, report, "正在分析 5 个文件...")
	assert.Contains(t, report, "已修复编译问题: a.cpp")
	assert.NotContains(t, report, "b.cpp")
	assert.Contains(t, report, "无法读取文件: c.cpp")
	assert.Contains(t, report, "写入文件失败: d.cpp")
	assert.Contains(t, report, "共找到 5 个文件，修复了 2 个文件的编译问题")
}

func TestProcessBatchFiles_Cancelled(t *testing.T) {
	mock := &MockFileProcessor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := ProcessBatchFiles(ctx, mock, []string{"a.cpp"}, NewReporter(&out, false), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, mock.calls)
}

func TestReporter_VerboseShowsUnchanged(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, true)
	r.Found(PassEncoding, 1)
	r.File(PassEncoding, "x.h", &domain.FileResult{Status: domain.StatusUnchanged}, nil)
	r.File(PassEncoding, "y.h", &domain.FileResult{Status: domain.StatusModified}, nil)
	r.Summary(&domain.ProcessResult{Pass: PassEncoding, FilesFound: 2, FilesModified: 1})

	assert.Equal(t, strings.Join([]string{
		"找到 1 个待检查文件",
		"未修改: x.h",
		"已修复编码: y.h",
		"共找到 2 个文件，修复了 1 个文件的编码",
		"",
	}, "\n"), out.String())
}

func TestRunPasses_EndToEnd(t *testing.T) {
	root := makeTree(t, map[string]string{
		"src/main.cpp":   "#include \"User.h\"\nint main() {\n    if (argc > 1)\n        run()\n    std::cout << \"按回车键继续...\" << std::endl;\n    return 0;\n}\n",
		"src/ok.cpp":     "int ok() {\n    return 1;\n}\n",
		"include/User.h": "struct User {\n    int gender; // 性别\n};\n",
		"src/bad.cpp":    "\xFF\xFE\xFF",
	})

	cfg := config.DefaultConfig()
	cfg.Roots = []string{filepath.Join(root, "src"), filepath.Join(root, "include")}
	cfg.Encodings = []string{textcodec.UTF8BOM, textcodec.UTF8}

	okPath := filepath.Join(root, "src", "ok.cpp")
	before, err := os.Stat(okPath)
	require.NoError(t, err)

	var out bytes.Buffer
	results, err := RunPasses(context.Background(), cfg, []string{PassEncoding, PassRepair}, &out, false, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 4, results[0].FilesFound)
	assert.Equal(t, 2, results[0].FilesModified)
	assert.Equal(t, 1, results[0].Unreadable)
	assert.Equal(t, 4, results[1].FilesFound)
	assert.Equal(t, 1, results[1].FilesModified)

	main, err := os.ReadFile(filepath.Join(root, "src", "main.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBF#include \"User.h\"\nint main() {\n    if (condition) {\n        run();\n    std::cout << \"Press Enter to continue...\" << std::endl;\n    return 0;\n}\n", string(main))

	user, err := os.ReadFile(filepath.Join(root, "include", "User.h"))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFstruct User {\n    int gender; // gender\n};\n", string(user))

	after, err := os.Stat(okPath)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	report := out.String()
	assert.Contains(t, report, "无法读取文件: "+filepath.Join(root, "src", "bad.cpp"))
	assert.Contains(t, report, "共找到 4 个文件，修复了 2 个文件的编码")
	assert.Contains(t, report, "共找到 4 个文件，修复了 1 个文件的编译问题")
}

func TestBuildProcessor_UnknownPass(t *testing.T) {
	_, err := BuildProcessor("format", config.DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestRunPasses_CleanCRLFTreeUntouched(t *testing.T) {
	root := makeTree(t, map[string]string{
		"src/main.cpp": "#include <iostream>\r\nint main() {\r\n    std::cout << \"ok\" << std::endl;\r\n    return 0;\r\n}\r\n",
		"src/User.h":   "\xEF\xBB\xBFstruct User {\r\n    int gender; // gender\r\n};\r\n",
	})

	cfg := config.DefaultConfig()
	cfg.Roots = []string{filepath.Join(root, "src")}

	var out bytes.Buffer
	results, err := RunPasses(context.Background(), cfg, []string{PassEncoding, PassRepair}, &out, false, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Zero(t, results[0].FilesModified)
	assert.Zero(t, results[1].FilesModified)

	assert.Equal(t, strings.Join([]string{
		"找到 2 个待检查文件",
		"共找到 2 个文件，修复了 0 个文件的编码",
		"正在分析 2 个文件...",
		"共找到 2 个文件，修复了 0 个文件的编译问题",
		"",
	}, "\n"), out.String())

	data, err := os.ReadFile(filepath.Join(root, "src", "main.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "#include <iostream>\r\nint main() {\r\n    std::cout << \"ok\" << std::endl;\r\n    return 0;\r\n}\r\n", string(data))
}
