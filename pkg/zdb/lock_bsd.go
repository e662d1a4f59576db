//go:build unix && !linux

package zdb

import "golang.org/x/sys/unix"

const setLockCmd = unix.F_SETLK
