package fsmount

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jsonfs/internal/jsonval"
)

func TestLoadNormalizesSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1,"arr":[1,2]}`), 0o644))

	state, err := Load(path, 1000, 1000, 64)
	require.NoError(t, err)
	require.True(t, state.IsSaved)
	require.True(t, state.Root.IsObject())
	require.Contains(t, state.Root.Object, "a")
	require.Equal(t, path, state.SourcePath)
}

func TestPersistWritesDenormalizedJSONAndClearsDirty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"arr":[10,20]}`), 0o644))

	state, err := Load(path, 0, 0, 0)
	require.NoError(t, err)

	state.IsSaved = false
	require.NoError(t, state.Persist())
	require.True(t, state.IsSaved)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(out), "\"arr\": [\n")
}

func TestDumpCacheReturnsSamePointerText(t *testing.T) {
	state, err := New(jsonval.NewObject(), "/tmp/does-not-matter.json", 0, 0, time.Now(), 8)
	require.NoError(t, err)

	leaf := jsonval.NewNumber(jsonval.IntNum(7))
	first, err := state.Dump(leaf)
	require.NoError(t, err)
	require.Equal(t, "7", string(first))

	second, err := state.Dump(leaf)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
