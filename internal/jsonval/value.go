// Package jsonval implements the normalized "shadow tree" representation
// of a JSON document: an object-only tree over which every filesystem
// operation resolves, mutates, and serializes, plus the Normalizer that
// converts a JSON document into that shape and back.
package jsonval

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the payload carried by a Node.
type Kind int

const (
	Object Kind = iota
	String
	Number
	Bool
	Null
)

// Node is a single value in the shadow tree. Nodes are heap-allocated
// and compared by pointer identity everywhere a child must be located
// unambiguously (FindParentAndKey, Replace): two structurally-equal
// but distinct nodes must never be treated as the same child. Go's
// garbage collector stands in for the original's json_incref/json_decref
// reference counting, so a replaced subtree is simply dropped and
// collected once nothing references it anymore.
type Node struct {
	Kind Kind

	// Object holds direct children when Kind == Object. It is the only
	// container shape after normalization; arrays never appear here.
	Object map[string]*Node

	Str  string
	Num  Num
	Bool bool
}

// Num is a JSON number that remembers whether it was written as an
// integer or a real, so round-tripping "42" never turns into "42.0"
// and reals are serialized to at most ten significant digits.
type Num struct {
	IsReal bool
	Int    int64
	Real   float64
}

// IntNum builds an integer Num.
func IntNum(v int64) Num { return Num{Int: v} }

// RealNum builds a real Num.
func RealNum(v float64) Num { return Num{IsReal: true, Real: v} }

// ParseNum parses a JSON number literal (as produced by
// encoding/json.Number) into a Num, classifying it as an integer only
// if it contains no fractional or exponent part and fits in int64.
func ParseNum(literal string) (Num, error) {
	if !strings.ContainsAny(literal, ".eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return IntNum(i), nil
		}
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Num{}, fmt.Errorf("jsonval: invalid number %q: %w", literal, err)
	}
	return RealNum(f), nil
}

// String renders the number the way the shadow tree serializes it:
// integers exactly, reals to ten significant digits.
func (n Num) String() string {
	if !n.IsReal {
		return strconv.FormatInt(n.Int, 10)
	}
	return strconv.FormatFloat(n.Real, 'g', 10, 64)
}

// MarshalJSON emits the number literally (unquoted), so a Num nested
// anywhere inside an `any` tree marshals the same way encoding/json
// would marshal a bare int64/float64, just with our precision rule.
func (n Num) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// NewObject returns an empty object node.
func NewObject() *Node {
	return &Node{Kind: Object, Object: map[string]*Node{}}
}

// NewString returns a string node.
func NewString(s string) *Node { return &Node{Kind: String, Str: s} }

// NewNumber returns a number node.
func NewNumber(n Num) *Node { return &Node{Kind: Number, Num: n} }

// NewBool returns a boolean node.
func NewBool(b bool) *Node { return &Node{Kind: Bool, Bool: b} }

// NewNull returns a null node. Every call returns a distinct pointer,
// which matters because a node's parent is located by identity, not
// value equality.
func NewNull() *Node { return &Node{Kind: Null} }

// IsObject reports whether n is a container node. A nil node is never
// an object.
func (n *Node) IsObject() bool { return n != nil && n.Kind == Object }

// DeepCopy clones n and every descendant, allocating fresh Node and map
// values throughout (objects never share child maps with their copy).
func (n *Node) DeepCopy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{Kind: n.Kind, Str: n.Str, Num: n.Num, Bool: n.Bool}
	if n.Kind == Object {
		cp.Object = make(map[string]*Node, len(n.Object))
		for k, v := range n.Object {
			cp.Object[k] = v.DeepCopy()
		}
	}
	return cp
}

// Equal reports structural equality. The production code path
// (FindParentAndKey) never uses it and compares by pointer identity
// instead, since two distinct nodes with equal contents must still
// resolve to their own distinct parent/key pair.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case Object:
		if len(n.Object) != len(other.Object) {
			return false
		}
		for k, v := range n.Object {
			ov, ok := other.Object[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case String:
		return n.Str == other.Str
	case Number:
		return n.Num == other.Num
	case Bool:
		return n.Bool == other.Bool
	case Null:
		return true
	default:
		return false
	}
}
