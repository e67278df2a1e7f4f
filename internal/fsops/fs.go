// Package fsops implements the filesystem callback surface: a
// github.com/hanwen/go-fuse/v2/fuse/pathfs.FileSystem whose handlers
// compose internal/jsonval, internal/sidecar, and internal/fsmount to
// resolve, mutate, and serialize the mounted JSON document.
package fsops

import (
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/pathfs"

	"jsonfs/internal/fsmount"
)

const (
	statusPath = "/.status"
	savePath   = "/.save"
)

// FS adapts a *fsmount.State to pathfs.FileSystem. It embeds the
// library's no-op default implementation so unsupported operations
// (symlinks, xattrs, hard links) report ENOSYS instead of requiring a
// stub here.
type FS struct {
	pathfs.FileSystem

	state *fsmount.State
}

// New builds the pathfs.FileSystem backing a single mount.
func New(state *fsmount.State) *FS {
	return &FS{
		FileSystem: pathfs.NewDefaultFileSystem(),
		state:      state,
	}
}

func (fs *FS) String() string { return "jsonfs" }

// toAbs turns a pathfs-relative name ("" at the root, "a/b" nested,
// never a leading slash) into the absolute "/a/b" form every other
// package in this repo works in.
func toAbs(name string) string {
	if name == "" {
		return "/"
	}
	return "/" + name
}

func isControlPath(abs string) bool {
	return abs == statusPath || abs == savePath
}

// OnUnmount runs once, when the host tears the mount down. There is
// nothing left to release explicitly once Go's garbage collector owns
// the shadow tree and sidecar list; unmounting does not implicitly
// persist unsaved changes.
func (fs *FS) OnUnmount() {}
