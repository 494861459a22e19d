//go:build !windows

package storage

import "os"

// osReplace 在 POSIX 系统上用 rename 原子替换
func osReplace(tmpPath, dest string) error {
	return os.Rename(tmpPath, dest)
}

// syncDir 同步父目录，持久化元数据
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
