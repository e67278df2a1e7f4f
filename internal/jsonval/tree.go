package jsonval

import (
	"errors"

	"jsonfs/internal/pathutil"
)

// ErrIsRoot is returned by FindParentAndKey when asked for the parent
// of the tree's own root, which has none.
var ErrIsRoot = errors.New("jsonval: node is the root, has no parent")

// ErrNotFound is returned by FindParentAndKey when target doesn't
// appear anywhere under root.
var ErrNotFound = errors.New("jsonval: node not found in tree")

// Resolve walks root along path's segments, requiring every
// intermediate node (and the final one, if it's not the target) to be
// an object. "/" resolves to root itself. Any violation — a missing
// key, or a non-object encountered mid-path — yields (nil, false).
func Resolve(path string, root *Node) (*Node, bool) {
	if root == nil {
		return nil, false
	}
	if path == "/" {
		return root, true
	}
	cur := root
	for _, seg := range pathutil.Segments(path) {
		if !cur.IsObject() {
			return nil, false
		}
		next, ok := cur.Object[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// FindParentAndKey performs a depth-first search from root for target,
// comparing children by pointer identity rather than structural
// equality, so a distinct node with the same contents as target is
// never mistaken for it. It only descends into object nodes. Returns
// ErrIsRoot if target == root, ErrNotFound if target never turns up.
func FindParentAndKey(root, target *Node) (parent *Node, key string, err error) {
	if root == nil || target == nil {
		return nil, "", errors.New("jsonval: root and target must not be nil")
	}
	if root == target {
		return nil, "", ErrIsRoot
	}
	parent, key, found := findIn(root, target)
	if !found {
		return nil, "", ErrNotFound
	}
	return parent, key, nil
}

func findIn(root, target *Node) (*Node, string, bool) {
	if !root.IsObject() {
		return nil, "", false
	}
	for k, v := range root.Object {
		if v == target {
			return root, k, true
		}
		if p, pk, ok := findIn(v, target); ok {
			return p, pk, true
		}
	}
	return nil, "", false
}

// CountObjectChildren returns the number of direct children of node
// that are themselves objects — used for a directory's POSIX nlink
// (2 + this count).
func CountObjectChildren(node *Node) int {
	if !node.IsObject() {
		return 0
	}
	count := 0
	for _, v := range node.Object {
		if v.IsObject() {
			count++
		}
	}
	return count
}

// Replace locates old within root and substitutes newNode in its
// parent under the same key. Fails if old is the root itself or isn't
// found anywhere in the tree.
func Replace(old, newNode, root *Node) error {
	parent, key, err := FindParentAndKey(root, old)
	if err != nil {
		return err
	}
	parent.Object[key] = newNode
	return nil
}
