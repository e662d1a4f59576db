//go:build unix

package zdb

import (
	"io"
	"os"

	pkgerr "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// lockShared takes a non-blocking read lock on the whole file.
func lockShared(f *os.File) error {
	lk := unix.Flock_t{
		Type:   unix.F_RDLCK,
		Whence: io.SeekStart,
	}
	err := unix.FcntlFlock(f.Fd(), setLockCmd, &lk)
	if err == nil {
		return nil
	}
	if err == unix.EAGAIN || err == unix.EACCES {
		return pkgerr.Wrapf(errDirectoryLocked, "%s: %v", f.Name(), err)
	}
	return pkgerr.Wrapf(err, "lock %s", f.Name())
}
