package zdb

import (
	"errors"
	"io"
	"os"

	"github.com/cockroachdb/pebble/vfs"
)

// errDirectoryLocked is returned when a writer holds the LOCK file of the store.
var errDirectoryLocked = errors.New("directory locked by a writer")

// readOnlyFS is the pebble filesystem of a read-only store. Its Lock never creates or
// truncates the LOCK file and only takes a shared lock on it.
type readOnlyFS struct {
	vfs.FS
}

func newReadOnlyFS() vfs.FS {
	return readOnlyFS{FS: vfs.Default}
}

func (fs readOnlyFS) Lock(name string) (io.Closer, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			// 快照或拷贝的目录可能没有LOCK文件
			return nopCloser{}, nil
		}
		return nil, err
	}
	if err := lockShared(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// isLockError reports whether pebble failed to take the directory lock held by a writer.
func isLockError(err error) bool {
	return errors.Is(err, errDirectoryLocked)
}
