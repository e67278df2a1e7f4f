package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresFileAndMount(t *testing.T) {
	_, err := Load(nil)
	require.Error(t, err)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load([]string{"--file", "doc.json", "--mount", "/mnt/doc"})
	require.NoError(t, err)
	require.Equal(t, 256, cfg.CacheSize)
	require.False(t, cfg.NoActivity)
	require.Equal(t, "127.0.0.1:0", cfg.ActivityAddr)
}

func TestConfigFileFillsUnsetFlagsOnly(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "jsonfs.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("cache_size: 1024\nactivity_addr: 0.0.0.0:9000\n"), 0o644))

	cfg, err := Load([]string{"--file", "doc.json", "--mount", "/mnt/doc", "--config", cfgPath})
	require.NoError(t, err)
	require.Equal(t, 1024, cfg.CacheSize)
	require.Equal(t, "0.0.0.0:9000", cfg.ActivityAddr)

	cfg2, err := Load([]string{"--file", "doc.json", "--mount", "/mnt/doc", "--config", cfgPath, "--cache-size", "8"})
	require.NoError(t, err)
	require.Equal(t, 8, cfg2.CacheSize)
}

func TestRepeatableFuseOpt(t *testing.T) {
	cfg, err := Load([]string{"--file", "doc.json", "--mount", "/mnt/doc", "--fuse-opt", "ro", "--fuse-opt", "noatime"})
	require.NoError(t, err)
	require.Equal(t, []string{"ro", "noatime"}, cfg.FuseOptions)
}
