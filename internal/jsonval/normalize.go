package jsonval

import (
	"encoding/json"
	"fmt"
	"strconv"

	"jsonfs/internal/pathutil"
)

// Normalize reshapes a decoded JSON value (map[string]any / []any /
// string / json.Number / bool / nil, as produced by Decode) into the
// object-only shadow tree. isRoot must be true only for the outermost
// call: it controls whether a scalar document gets wrapped in
// {"@scalar": value}.
func Normalize(value any, isRoot bool) (*Node, error) {
	switch v := value.(type) {
	case map[string]any:
		obj := NewObject()
		for k, child := range v {
			cn, err := Normalize(child, false)
			if err != nil {
				return nil, err
			}
			obj.Object[pathutil.EscapeSlash(k)] = cn
		}
		return obj, nil
	case []any:
		obj := NewObject()
		for i, child := range v {
			cn, err := Normalize(child, false)
			if err != nil {
				return nil, err
			}
			obj.Object[pathutil.PFX+strconv.Itoa(i)] = cn
		}
		return obj, nil
	case string:
		if isRoot {
			wrap := NewObject()
			wrap.Object[pathutil.PFX+"scalar"] = NewString(v)
			return wrap, nil
		}
		return NewString(v), nil
	case json.Number:
		num, err := ParseNum(v.String())
		if err != nil {
			return nil, err
		}
		if isRoot {
			wrap := NewObject()
			wrap.Object[pathutil.PFX+"scalar"] = NewNumber(num)
			return wrap, nil
		}
		return NewNumber(num), nil
	case bool:
		if isRoot {
			wrap := NewObject()
			wrap.Object[pathutil.PFX+"scalar"] = NewBool(v)
			return wrap, nil
		}
		return NewBool(v), nil
	case nil:
		if isRoot {
			wrap := NewObject()
			wrap.Object[pathutil.PFX+"scalar"] = NewNull()
			return wrap, nil
		}
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("jsonval: normalize: unsupported value type %T", value)
	}
}

// arrayKeyIndex reports whether key is "@<n>" for a non-negative
// decimal n, returning n and true if so.
func arrayKeyIndex(key string) (int, bool) {
	if len(key) <= len(pathutil.PFX) || key[:len(pathutil.PFX)] != pathutil.PFX {
		return 0, false
	}
	digits := key[len(pathutil.PFX):]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Denormalize reconstructs a JSON value in its original polymorphic
// shape (objects, arrays, scalars) from a shadow-tree node. It is only
// invoked at persist time; the live shadow tree never sees arrays.
func Denormalize(node *Node) any {
	cp := node.DeepCopy()
	return denormalize(cp)
}

func denormalize(node *Node) any {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case String:
		return node.Str
	case Number:
		return node.Num
	case Bool:
		return node.Bool
	case Null:
		return nil
	case Object:
		if scalar, ok := node.Object[pathutil.PFX+"scalar"]; ok && len(node.Object) == 1 {
			return denormalize(scalar)
		}
		if arr, ok := objectAsArray(node); ok {
			out := make([]any, len(arr))
			for i, child := range arr {
				out[i] = denormalize(child)
			}
			return out
		}
		out := make(map[string]any, len(node.Object))
		for k, v := range node.Object {
			out[pathutil.UnescapeSlash(k)] = denormalize(v)
		}
		return out
	default:
		return nil
	}
}

// objectAsArray reports whether obj's keys are exactly "@0".."@N-1"
// with contiguous indices, returning the children in index order.
//
// A known gap: an originally-empty array normalizes to an empty
// object and is indistinguishable from one, since there are no "@n"
// keys left to recognize here. Denormalize therefore reconstructs an
// empty array back as {} rather than []. Fixing this would require
// tagging "this object came from an array" at normalize time even
// when it has no children; left as a documented limitation rather
// than a silent one.
func objectAsArray(obj *Node) ([]*Node, bool) {
	if len(obj.Object) == 0 {
		return nil, false
	}
	ordered := make([]*Node, len(obj.Object))
	seen := make([]bool, len(obj.Object))
	for key, child := range obj.Object {
		idx, ok := arrayKeyIndex(key)
		if !ok || idx < 0 || idx >= len(ordered) {
			return nil, false
		}
		if seen[idx] {
			return nil, false
		}
		seen[idx] = true
		ordered[idx] = child
	}
	for _, ok := range seen {
		if !ok {
			return nil, false
		}
	}
	return ordered, true
}
