package fsops

import (
	"syscall"

	"github.com/hanwen/go-fuse/v2/fuse"

	"jsonfs/internal/jsonval"
)

// OpenDir lists a directory node's entries: "." and ".." always, plus
// the control files at the root, plus one entry per direct child key
// (already slash-escaped, emitted verbatim).
func (fs *FS) OpenDir(name string, context *fuse.Context) ([]fuse.DirEntry, fuse.Status) {
	abs := toAbs(name)
	st := fs.state
	st.Lock()
	defer st.Unlock()

	node, ok := jsonval.Resolve(abs, st.Root)
	if !ok {
		return nil, status(errNoEnt)
	}
	if !node.IsObject() {
		return nil, status(errNotDir)
	}

	entries := []fuse.DirEntry{
		{Name: ".", Mode: syscall.S_IFDIR},
		{Name: "..", Mode: syscall.S_IFDIR},
	}
	if abs == "/" {
		entries = append(entries,
			fuse.DirEntry{Name: ".status", Mode: syscall.S_IFREG},
			fuse.DirEntry{Name: ".save", Mode: syscall.S_IFREG},
		)
	}
	for key, child := range node.Object {
		mode := uint32(syscall.S_IFREG)
		if child.IsObject() {
			mode = syscall.S_IFDIR
		}
		entries = append(entries, fuse.DirEntry{Name: key, Mode: mode})
	}
	return entries, fuse.OK
}
