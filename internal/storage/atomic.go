package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic 先写入同目录下的临时文件，再替换目标文件。
// 目标已存在时沿用其权限，否则使用 perm
func WriteFileAtomic(dest string, data []byte, perm os.FileMode) error {
	if info, err := os.Stat(dest); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".srcfix-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, perm)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("同步临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := osReplace(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("替换目标文件失败: %w", err)
	}

	// 尽力同步父目录
	_ = syncDir(dir)
	return nil
}
