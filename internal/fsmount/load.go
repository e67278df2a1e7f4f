package fsmount

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jsonfs/internal/jsonval"
)

// Load reads sourcePath, decodes and normalizes it into a shadow tree,
// and builds a fresh mount State over it. sourcePath is resolved
// against the process's working directory first and stored absolute
// in the returned State.
func Load(sourcePath string, uid, gid uint32, cacheSize int) (*State, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("fsmount: resolve %s: %w", sourcePath, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("fsmount: read %s: %w", abs, err)
	}

	decoded, err := jsonval.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("fsmount: decode %s: %w", abs, err)
	}

	root, err := jsonval.Normalize(decoded, true)
	if err != nil {
		return nil, fmt.Errorf("fsmount: normalize %s: %w", abs, err)
	}

	return New(root, abs, uid, gid, time.Now(), cacheSize)
}
