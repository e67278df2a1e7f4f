package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/require"

	"jsonfs/internal/fsmount"
)

func mustMount(t *testing.T, doc string) (*FS, *fsmount.State, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	state, err := fsmount.Load(path, 0, 0, 64)
	require.NoError(t, err)
	return New(state), state, path
}

var ctx = &fuse.Context{}

func TestS1ReaddirRootListsControlFilesAndChildren(t *testing.T) {
	fs, _, _ := mustMount(t, `{"a":1,"b":{"c":"x"}}`)
	entries, st := fs.OpenDir("", ctx)
	require.Equal(t, fuse.OK, st)
	names := make(map[string]bool)
	for _, e := range entries {
		names[e.Name] = true
	}
	for _, want := range []string{".", "..", ".status", ".save", "a", "b"} {
		require.True(t, names[want], "missing %q", want)
	}
}

func TestS2ReadScalarLeaf(t *testing.T) {
	fs, _, _ := mustMount(t, `{"a":1,"b":{"c":"x"}}`)
	f, st := fs.Open("a", 0, ctx)
	require.Equal(t, fuse.OK, st)
	buf := make([]byte, 16)
	res, st := f.Read(buf, 0)
	require.Equal(t, fuse.OK, st)
	data, st := res.Bytes(buf)
	require.Equal(t, fuse.OK, st)
	require.Equal(t, "1", string(data))
}

func TestS3WriteThenReadAndSaveFlag(t *testing.T) {
	fs, _, _ := mustMount(t, `{"a":1,"b":{"c":"x"}}`)
	f, st := fs.Open("a", 0, ctx)
	require.Equal(t, fuse.OK, st)

	n, st := f.Write([]byte("42"), 0)
	require.Equal(t, fuse.OK, st)
	require.Equal(t, uint32(2), n)

	buf := make([]byte, 16)
	res, st := f.Read(buf, 0)
	require.Equal(t, fuse.OK, st)
	data, _ := res.Bytes(buf)
	require.Equal(t, "42", string(data))

	saveFile, st := fs.Open(".save", 0, ctx)
	require.Equal(t, fuse.OK, st)
	res, st = saveFile.Read(buf, 0)
	require.Equal(t, fuse.OK, st)
	data, _ = res.Bytes(buf)
	require.Equal(t, "1", string(data))
}

func TestS4ArrayBecomesDirectoryWithIndexKeys(t *testing.T) {
	fs, _, _ := mustMount(t, `{"arr":[10,20]}`)
	entries, st := fs.OpenDir("arr", ctx)
	require.Equal(t, fuse.OK, st)
	names := make(map[string]bool)
	for _, e := range entries {
		names[e.Name] = true
	}
	require.True(t, names["@0"])
	require.True(t, names["@1"])
}

func TestS5SaveWritesIndentedJSONToSourceFile(t *testing.T) {
	fs, _, path := mustMount(t, `{"arr":[10,20]}`)
	f, st := fs.Open(".save", 0, ctx)
	require.Equal(t, fuse.OK, st)

	_, st = f.Write([]byte("1"), 0)
	require.Equal(t, fuse.OK, st)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(out), "\"arr\": [\n")
	require.Contains(t, string(out), "  10")
}

func TestS6RootScalarWrapped(t *testing.T) {
	fs, _, _ := mustMount(t, `42`)
	entries, st := fs.OpenDir("", ctx)
	require.Equal(t, fuse.OK, st)
	found := false
	for _, e := range entries {
		if e.Name == "@scalar" {
			found = true
		}
	}
	require.True(t, found)

	f, st := fs.Open("@scalar", 0, ctx)
	require.Equal(t, fuse.OK, st)
	buf := make([]byte, 16)
	res, st := f.Read(buf, 0)
	require.Equal(t, fuse.OK, st)
	data, _ := res.Bytes(buf)
	require.Equal(t, "42", string(data))
}

func TestS7MkdirMknodNlink(t *testing.T) {
	fs, _, _ := mustMount(t, `{}`)
	require.Equal(t, fuse.OK, fs.Mkdir("d", 0775, ctx))
	require.Equal(t, fuse.OK, fs.Mknod("d/f", 0644, 0, ctx))

	attr, st := fs.GetAttr("d", ctx)
	require.Equal(t, fuse.OK, st)
	require.Equal(t, uint32(2), attr.Nlink)
}

func TestS8RmdirEmptyThenRootIsBusy(t *testing.T) {
	fs, _, _ := mustMount(t, `{"d":{}}`)
	require.Equal(t, fuse.OK, fs.Rmdir("d", ctx))
	require.Equal(t, status(errBusy), fs.Rmdir("", ctx))
}

func TestS9RenameUnderSelfIsRejected(t *testing.T) {
	fs, _, _ := mustMount(t, `{"a":{"b":1}}`)
	require.Equal(t, status(errInval), fs.Rename("a", "a/x", ctx))
}

func TestS10TruncateToZero(t *testing.T) {
	fs, _, _ := mustMount(t, `{"a":1}`)
	f, st := fs.Open("a", 0, ctx)
	require.Equal(t, fuse.OK, st)
	require.Equal(t, fuse.OK, f.Truncate(0))

	buf := make([]byte, 16)
	res, st := f.Read(buf, 0)
	require.Equal(t, fuse.OK, st)
	data, _ := res.Bytes(buf)
	require.Equal(t, "0", string(data))
}

func TestUnlinkRejectsObjectAndRmdirRejectsLeaf(t *testing.T) {
	fs, _, _ := mustMount(t, `{"a":1,"d":{}}`)
	require.Equal(t, status(errIsDir), fs.Unlink("d", ctx))
	require.Equal(t, status(errNotDir), fs.Rmdir("a", ctx))
}

func TestMknodDuplicateNameIsEEXIST(t *testing.T) {
	fs, _, _ := mustMount(t, `{"a":1}`)
	require.Equal(t, status(errExist), fs.Mknod("a", 0644, 0, ctx))
}
