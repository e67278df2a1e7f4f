package fsops

import (
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"

	"jsonfs/internal/fsmount"
	"jsonfs/internal/jsonval"
	"jsonfs/internal/sidecar"
)

// Open returns a handle that re-resolves path on every call, matching
// the original handlers, which call find_json_node fresh on each
// read/write rather than caching the node from open time.
func (fs *FS) Open(name string, flags uint32, context *fuse.Context) (nodefs.File, fuse.Status) {
	abs := toAbs(name)
	if !isControlPath(abs) {
		fs.state.Lock()
		_, ok := jsonval.Resolve(abs, fs.state.Root)
		fs.state.Unlock()
		if !ok {
			return nil, status(errNoEnt)
		}
	}
	return &jsonFile{File: nodefs.NewDefaultFile(), fs: fs, path: abs}, fuse.OK
}

// Create handles O_CREAT opens some hosts route here instead of
// Mknod+Open; it performs the same insertion mknod does, then opens
// the freshly created node.
func (fs *FS) Create(name string, flags uint32, mode uint32, context *fuse.Context) (nodefs.File, fuse.Status) {
	if st := fs.mknod(toAbs(name), mode); st != fuse.OK {
		return nil, st
	}
	return fs.Open(name, flags, context)
}

type jsonFile struct {
	nodefs.File

	fs   *FS
	path string
}

// Read serves both control and JSON files: serialize the current
// content, copy the requested slice, and touch atime/ctime without
// marking the mount dirty.
func (f *jsonFile) Read(dest []byte, off int64) (fuse.ReadResult, fuse.Status) {
	st := f.fs.state
	st.Lock()
	defer st.Unlock()

	var text []byte
	switch {
	case f.path == statusPath:
		if st.IsSaved {
			text = []byte("SAVED\n")
		} else {
			text = []byte("UNSAVED\n")
		}
	case f.path == savePath:
		if st.IsSaved {
			text = []byte("0")
		} else {
			text = []byte("1")
		}
	default:
		node, ok := jsonval.Resolve(f.path, st.Root)
		if !ok {
			return nil, status(errNoEnt)
		}
		dumped, err := st.Dump(node)
		if err != nil {
			return nil, status(errNoMem)
		}
		text = dumped
	}

	touchTimes(st, f.path, sidecar.SetAtime|sidecar.SetCtime)

	if off < 0 || off >= int64(len(text)) {
		return fuse.ReadResultData(nil), fuse.OK
	}
	end := int(off) + len(dest)
	if end > len(text) {
		end = len(text)
	}
	return fuse.ReadResultData(text[off:end]), fuse.OK
}

// Write handles a write to any open file: ".save" persists, any other
// control path is rejected, and a JSON file is patched by re-
// serializing, splicing the new bytes in at offset, and reparsing.
func (f *jsonFile) Write(data []byte, off int64) (uint32, fuse.Status) {
	st := f.fs.state
	st.Lock()
	defer st.Unlock()

	if f.path == statusPath {
		return 0, status(errAccess)
	}
	if f.path == savePath {
		if err := st.Persist(); err != nil {
			return 0, status(errInval)
		}
		touchTimes(st, f.path, sidecar.SetMtime|sidecar.SetCtime)
		return uint32(len(data)), fuse.OK
	}

	oldNode, ok := jsonval.Resolve(f.path, st.Root)
	if !ok {
		return 0, status(errNoEnt)
	}
	content, err := st.Dump(oldNode)
	if err != nil {
		return 0, status(errNoMem)
	}

	// Patch a copy: content may be the dump cache's entry for oldNode,
	// which must stay intact if the patched text fails to parse.
	need := int(off) + len(data)
	if need < len(content) {
		need = len(content)
	}
	patched := make([]byte, need)
	copy(patched, content)
	copy(patched[off:], data)
	content = patched

	decoded, err := jsonval.Decode(content)
	if err != nil {
		return 0, status(errInval)
	}
	newNode, err := jsonval.Normalize(decoded, false)
	if err != nil {
		return 0, status(errInval)
	}

	if err := jsonval.Replace(oldNode, newNode, st.Root); err != nil {
		return 0, status(errNoEnt)
	}

	touchTimes(st, f.path, sidecar.SetMtime|sidecar.SetCtime)
	st.MarkDirty("write", f.path)
	return uint32(len(data)), fuse.OK
}

// Truncate resizes a file's content: length 0 replaces the node with
// integer 0; otherwise the serialized text is resized (zero-filled on
// growth) and reparsed.
func (f *jsonFile) Truncate(size uint64) fuse.Status {
	return f.fs.truncate(f.path, int64(size))
}

func (fs *FS) truncate(abs string, length int64) fuse.Status {
	if length < 0 {
		return status(errInval)
	}
	st := fs.state
	st.Lock()
	defer st.Unlock()

	oldNode, ok := jsonval.Resolve(abs, st.Root)
	if !ok {
		return status(errNoEnt)
	}

	if length == 0 {
		if err := jsonval.Replace(oldNode, jsonval.NewNumber(jsonval.IntNum(0)), st.Root); err != nil {
			return status(errNoEnt)
		}
		touchTimes(st, abs, sidecar.SetMtime|sidecar.SetCtime)
		st.MarkDirty("truncate", abs)
		return fuse.OK
	}

	content, err := st.Dump(oldNode)
	if err != nil {
		return status(errNoMem)
	}
	if int64(len(content)) != length {
		resized := make([]byte, length)
		copy(resized, content)
		content = resized
	}

	decoded, err := jsonval.Decode(content)
	if err != nil {
		return status(errInval)
	}
	newNode, err := jsonval.Normalize(decoded, false)
	if err != nil {
		return status(errInval)
	}
	if err := jsonval.Replace(oldNode, newNode, st.Root); err != nil {
		return status(errNoEnt)
	}

	touchTimes(st, abs, sidecar.SetMtime|sidecar.SetCtime)
	st.MarkDirty("truncate", abs)
	return fuse.OK
}

// touchTimes mirrors every handler's "ft ? update : add_node" pattern:
// update the existing sidecar record's fields in place, or insert a
// fresh one stamped per flags. Callers hold the State lock already.
func touchTimes(st *fsmount.State, path string, flags sidecar.Flags) {
	now := time.Now()
	if rec := st.Sidecar.Find(path); rec != nil {
		if flags&sidecar.SetAtime != 0 {
			rec.Atime = now
		}
		if flags&sidecar.SetMtime != 0 {
			rec.Mtime = now
		}
		if flags&sidecar.SetCtime != 0 {
			rec.Ctime = now
		}
		return
	}
	st.Sidecar.Add(path, flags, now)
}
