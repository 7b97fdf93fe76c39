//go:build unix

package fs

import (
	"fmt"
	"io/fs"
	"syscall"
	"time"

	"mediagrabber/internal/mg"
)

// ExtractStatData extracts the modification and inode change times from a FileInfo.
func (m *OSFilesystemManager) ExtractStatData(info fs.FileInfo) (*mg.StatData, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *syscall.Stat_t, got %T", info.Sys())
	}

	return &mg.StatData{
		Mtime: info.ModTime(),
		Ctime: time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec)),
	}, nil
}
