// Package fsmount holds the single shared record threaded through
// every filesystem callback: the shadow tree, the source file path,
// the metadata sidecar, ownership/timing, and the dirty bit.
package fsmount

import (
	"fmt"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"jsonfs/internal/jsonval"
	"jsonfs/internal/sidecar"
)

// State is the per-mount record. It embeds sync.Mutex so the host's
// callback surface can be treated as single-threaded per mount even
// when the FUSE library itself dispatches callbacks from multiple
// goroutines: every operation handler acquires this lock on entry and
// releases it on return.
type State struct {
	sync.Mutex

	Root       *jsonval.Node
	SourcePath string
	Sidecar    *sidecar.List
	MountTime  time.Time
	UID, GID   uint32
	IsSaved    bool

	// Notify, if set, is invoked after every successful mutating
	// operation (including persist) with the operation name and the
	// affected path. internal/activity wires this to its broadcast
	// channel; fsmount itself knows nothing about HTTP or WebSockets.
	Notify func(op, path string)

	// dumpCache holds the serialized text of leaf (non-object) nodes,
	// keyed by node pointer. Leaf nodes are always swapped wholesale by
	// jsonval.Replace rather than mutated in place, so a cache entry
	// never goes stale while its key is reachable — there is nothing to
	// invalidate, only entries to evict once the node itself is gone.
	dumpCache *lru.Cache[*jsonval.Node, []byte]
}

// New builds a mount state over an already-normalized shadow root, the
// resolved absolute source path, and the process's effective uid/gid.
// cacheSize <= 0 disables the dump cache.
func New(root *jsonval.Node, sourcePath string, uid, gid uint32, now time.Time, cacheSize int) (*State, error) {
	s := &State{
		Root:       root,
		SourcePath: sourcePath,
		Sidecar:    sidecar.New(now),
		MountTime:  now,
		UID:        uid,
		GID:        gid,
		IsSaved:    true,
	}
	if cacheSize > 0 {
		cache, err := lru.New[*jsonval.Node, []byte](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("fsmount: build dump cache: %w", err)
		}
		s.dumpCache = cache
	}
	return s, nil
}

// Dump serializes node, the way read/getattr need, consulting and
// populating the dump cache when one is configured and node is a leaf.
func (s *State) Dump(node *jsonval.Node) ([]byte, error) {
	cache := s.dumpCache
	if node.IsObject() {
		cache = nil
	}
	if cache != nil {
		if cached, ok := cache.Get(node); ok {
			return cached, nil
		}
	}
	out, err := jsonval.Dump(node)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Add(node, out)
	}
	return out, nil
}

// Status reports the fields internal/activity's /status route exposes,
// letting that package depend on this interface's shape rather than on
// fsmount directly.
func (s *State) Status() (isSaved bool, sourcePath string, mountTime time.Time) {
	s.Lock()
	defer s.Unlock()
	return s.IsSaved, s.SourcePath, s.MountTime
}

// MarkDirty clears IsSaved; every successful mutating operation calls
// this. Callers hold the State lock already.
func (s *State) MarkDirty(op, path string) {
	s.IsSaved = false
	if s.Notify != nil {
		s.Notify(op, path)
	}
}

// Persist denormalizes the shadow root and writes it to SourcePath with
// two-space indentation, setting IsSaved on success. Callers hold the
// State lock already.
func (s *State) Persist() error {
	value := jsonval.Denormalize(s.Root)
	data, err := jsonval.EncodeIndent(value, "  ")
	if err != nil {
		return fmt.Errorf("fsmount: denormalize: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.SourcePath, data, 0o644); err != nil {
		return fmt.Errorf("fsmount: write %s: %w", s.SourcePath, err)
	}
	s.IsSaved = true
	if s.Notify != nil {
		s.Notify("persist", s.SourcePath)
	}
	return nil
}
