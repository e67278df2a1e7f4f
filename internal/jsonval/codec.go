package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses raw JSON bytes into the plain, pre-normalization shape
// (map[string]any / []any / string / json.Number / bool / nil) that
// Normalize expects. Numbers decode as json.Number so ParseNum can tell
// integers from reals. A top-level scalar document decodes fine, since
// encoding/json itself accepts any JSON value at the top level —
// parsing stays permissive about scalar top-level documents.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("jsonval: decode: %w", err)
	}
	return v, nil
}

// Dump serializes a shadow-tree node exactly as stored — an object
// node dumps as a JSON object of its (already slash-escaped) keys, a
// scalar dumps as that scalar. It never denormalizes: read/getattr
// operate directly on the shadow representation (arrays and the
// root-scalar wrapper stay in their normalized @0/@scalar shape), the
// same way the original's json_dumps(node, ...) does.
func Dump(node *Node) ([]byte, error) {
	return encode(toPlain(node), "", "")
}

// toPlain converts a shadow node into an `any` suitable for
// encoding/json, without touching the @0/@scalar encoding scheme —
// i.e. it is shallower than Denormalize, which additionally reverses
// array/root-scalar packing.
func toPlain(node *Node) any {
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
		out := make(map[string]any, len(node.Object))
		for k, v := range node.Object {
			out[k] = toPlain(v)
		}
		return out
	default:
		return nil
	}
}

// EncodeIndent serializes a denormalized value (the output of
// Denormalize) with the given indent and no HTML escaping, so
// characters like "<" or "&" inside string values survive a save
// unchanged instead of turning into backslash-u Unicode escapes.
func EncodeIndent(value any, indent string) ([]byte, error) {
	return encode(value, "", indent)
}

// Encode serializes value compactly, no HTML escaping.
func Encode(value any) ([]byte, error) {
	return encode(value, "", "")
}

func encode(value any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent(prefix, indent)
	}
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("jsonval: encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
