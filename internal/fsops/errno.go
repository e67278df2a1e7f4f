package fsops

import (
	"syscall"

	"github.com/hanwen/go-fuse/v2/fuse"
)

// status converts a POSIX errno (syscall.Errno(0) for success) into the
// fuse.Status the host expects. fuse.Status is numerically an errno,
// so this is a direct cast; syscall.Errno already comes back
// non-negated from the handler layer.
func status(errno syscall.Errno) fuse.Status {
	return fuse.Status(errno)
}

const (
	errFault       = syscall.EFAULT
	errInval       = syscall.EINVAL
	errNoEnt       = syscall.ENOENT
	errIsDir       = syscall.EISDIR
	errNotDir      = syscall.ENOTDIR
	errExist       = syscall.EEXIST
	errAccess      = syscall.EACCES
	errPerm        = syscall.EPERM
	errNotEmpty    = syscall.ENOTEMPTY
	errBusy        = syscall.EBUSY
	errNameTooLong = syscall.ENAMETOOLONG
	errNoMem       = syscall.ENOMEM
	errIO          = syscall.EIO
)

// maxNameBytes bounds a new basename (mknod/mkdir), matching the
// original's MID_SIZE-derived 64-byte key buffer.
const maxNameBytes = 64
