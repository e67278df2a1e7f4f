// Package config parses the jsonfs CLI's flags and optional on-disk
// settings: flags, with one addition — an optional YAML file for the
// handful of settings that don't read naturally as flags. A .env file,
// if present, is loaded into the process environment first; no Config
// field is read from environment variables.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config holds everything cmd/jsonfs needs to build a mount.
type Config struct {
	JSONFile string
	Mount    string

	ActivityAddr string
	NoActivity   bool
	CacheSize    int
	AllowOther   bool
	FuseOptions  []string
}

// fileConfig is the shape of an optional --config YAML file, for
// settings that don't make sense as flags (see SPEC_FULL.md §2.1).
type fileConfig struct {
	ActivityAddr string `yaml:"activity_addr"`
	CacheSize    int    `yaml:"cache_size"`
}

// Load parses args (normally os.Args[1:]) into a Config. Flags always
// win over a --config file, which always wins over defaults; .env is
// loaded best-effort first and its absence is not an error.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("jsonfs", flag.ContinueOnError)
	jsonFile := fs.String("file", "", "path to the JSON file to mount")
	mount := fs.String("mount", "", "mount point directory")
	configPath := fs.String("config", "", "optional YAML config file")
	activityAddr := fs.String("activity-addr", "127.0.0.1:0", "address for the activity feed HTTP server")
	noActivity := fs.Bool("no-activity", false, "disable the activity feed server")
	cacheSize := fs.Int("cache-size", 256, "entries in the leaf dump cache (0 disables it)")
	allowOther := fs.Bool("allow-other", false, "pass allow_other to the FUSE mount")
	var fuseOpts stringList
	fs.Var(&fuseOpts, "fuse-opt", "extra raw FUSE mount option (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		ActivityAddr: *activityAddr,
		NoActivity:   *noActivity,
		CacheSize:    *cacheSize,
		AllowOther:   *allowOther,
		FuseOptions:  fuseOpts,
	}

	if *configPath != "" {
		fc, err := loadFileConfig(*configPath)
		if err != nil {
			return nil, err
		}
		if !isFlagSet(fs, "activity-addr") && fc.ActivityAddr != "" {
			cfg.ActivityAddr = fc.ActivityAddr
		}
		if !isFlagSet(fs, "cache-size") && fc.CacheSize != 0 {
			cfg.CacheSize = fc.CacheSize
		}
	}

	jf, err := homedir.Expand(*jsonFile)
	if err != nil {
		return nil, fmt.Errorf("config: expand --file: %w", err)
	}
	if jf == "" {
		return nil, fmt.Errorf("config: --file is required")
	}
	mp, err := homedir.Expand(*mount)
	if err != nil {
		return nil, fmt.Errorf("config: expand --mount: %w", err)
	}
	if mp == "" {
		return nil, fmt.Errorf("config: --mount is required")
	}
	cfg.JSONFile = jf
	cfg.Mount = mp

	return cfg, nil
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &fc, nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// stringList implements flag.Value for a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
