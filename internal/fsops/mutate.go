package fsops

import (
	"strings"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"

	"jsonfs/internal/jsonval"
	"jsonfs/internal/pathutil"
	"jsonfs/internal/sidecar"
)

// Unlink removes a leaf entry; it rejects object (directory) nodes.
func (fs *FS) Unlink(name string, context *fuse.Context) fuse.Status {
	return fs.remove(toAbs(name), false)
}

// Rmdir removes a directory entry; it requires an empty, non-root
// object node.
func (fs *FS) Rmdir(name string, context *fuse.Context) fuse.Status {
	return fs.remove(toAbs(name), true)
}

func (fs *FS) remove(abs string, wantDir bool) fuse.Status {
	st := fs.state
	st.Lock()
	defer st.Unlock()

	node, ok := jsonval.Resolve(abs, st.Root)
	if !ok {
		if isControlPath(abs) {
			return status(errPerm)
		}
		return status(errNoEnt)
	}

	if wantDir {
		if !node.IsObject() {
			return status(errNotDir)
		}
		if abs == "/" {
			return status(errBusy)
		}
		if len(node.Object) != 0 {
			return status(errNotEmpty)
		}
	} else if node.IsObject() {
		return status(errIsDir)
	}

	parent, key, err := jsonval.FindParentAndKey(st.Root, node)
	if err != nil {
		return status(errNoEnt)
	}
	delete(parent.Object, key)
	st.Sidecar.Remove(abs)
	st.MarkDirty("unlink", abs)
	return fuse.OK
}

// Mkdir creates a new, empty object node at name.
func (fs *FS) Mkdir(name string, mode uint32, context *fuse.Context) fuse.Status {
	st := fs.state
	st.Lock()
	defer st.Unlock()
	return fs.insert(toAbs(name), jsonval.NewObject())
}

// Mknod creates a new regular file; it starts out as the JSON
// integer 0.
func (fs *FS) Mknod(name string, mode uint32, dev uint32, context *fuse.Context) fuse.Status {
	return fs.mknod(toAbs(name), mode)
}

func (fs *FS) mknod(abs string, mode uint32) fuse.Status {
	fs.state.Lock()
	defer fs.state.Unlock()
	return fs.insert(abs, jsonval.NewNumber(jsonval.IntNum(0)))
}

// insert performs the shared split/validate/insert steps of
// mknod/mkdir. Callers hold the State lock already.
func (fs *FS) insert(abs string, child *jsonval.Node) fuse.Status {
	if strings.Contains(abs, ".sw") {
		return status(errPerm)
	}

	parentPath, base := pathutil.Split(abs)
	if parentPath == "" || base == "" {
		return status(errInval)
	}
	if len(base) >= maxNameBytes {
		return status(errNameTooLong)
	}

	st := fs.state
	parent, ok := jsonval.Resolve(parentPath, st.Root)
	if !ok {
		return status(errNoEnt)
	}
	if !parent.IsObject() {
		return status(errNotDir)
	}
	if _, exists := parent.Object[base]; exists {
		return status(errExist)
	}

	parent.Object[base] = child
	touchTimes(st, abs, sidecar.SetMtime|sidecar.SetCtime)
	st.MarkDirty("create", abs)
	return fuse.OK
}

// Rename moves a node from oldName to newName, rejecting a rename
// into one of its own descendants.
func (fs *FS) Rename(oldName string, newName string, context *fuse.Context) fuse.Status {
	oldAbs, newAbs := toAbs(oldName), toAbs(newName)
	st := fs.state
	st.Lock()
	defer st.Unlock()

	node, ok := jsonval.Resolve(oldAbs, st.Root)
	if !ok {
		return status(errNoEnt)
	}

	oldParentPath, oldBase := pathutil.Split(oldAbs)
	newParentPath, newBase := pathutil.Split(newAbs)

	oldParent, ok := resolveRelativeToRoot(oldParentPath, st.Root)
	if !ok {
		return status(errNoEnt)
	}
	newParent, ok := resolveRelativeToRoot(newParentPath, st.Root)
	if !ok {
		return status(errNoEnt)
	}
	if !newParent.IsObject() {
		return status(errNotDir)
	}

	if strings.HasPrefix(newAbs, oldAbs+"/") {
		return status(errInval)
	}

	newParent.Object[newBase] = node
	delete(oldParent.Object, oldBase)
	st.Sidecar.Remove(oldAbs)
	st.MarkDirty("rename", newAbs)
	return fuse.OK
}

// resolveRelativeToRoot handles the "." parent-path sentinel
// pathutil.Split returns for a bare relative name, treating it as the
// shadow root — mirroring rename_file's own "." special case.
func resolveRelativeToRoot(parentPath string, root *jsonval.Node) (*jsonval.Node, bool) {
	if parentPath == "." {
		return root, true
	}
	return jsonval.Resolve(parentPath, root)
}

// Utimens sets a node's atime/mtime, creating a sidecar record if one
// doesn't exist yet; setting mtime also bumps ctime.
func (fs *FS) Utimens(name string, atime *time.Time, mtime *time.Time, context *fuse.Context) fuse.Status {
	abs := toAbs(name)
	st := fs.state
	st.Lock()
	defer st.Unlock()

	rec := st.Sidecar.Find(abs)
	if rec == nil {
		rec = st.Sidecar.Add(abs, 0, time.Now())
	}
	if atime != nil {
		rec.Atime = *atime
	}
	if mtime != nil {
		rec.Mtime = *mtime
		rec.Ctime = *mtime
	}
	if st.Notify != nil {
		st.Notify("utimens", abs)
	}
	return fuse.OK
}
