//go:build linux

package zdb

import "golang.org/x/sys/unix"

// open file description locks also conflict with a writer in this process
const setLockCmd = unix.F_OFD_SETLK
