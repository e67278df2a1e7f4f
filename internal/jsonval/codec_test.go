package jsonval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpLeafNodeIsScalarText(t *testing.T) {
	out, err := Dump(NewNumber(RealNum(3.14159265)))
	require.NoError(t, err)
	require.Equal(t, "3.14159265", string(out))

	out, err = Dump(NewString("hi"))
	require.NoError(t, err)
	require.Equal(t, `"hi"`, string(out))
}

func TestDumpObjectNodeDumpsShadowShapeNotArray(t *testing.T) {
	node := NewObject()
	node.Object["@0"] = NewNumber(IntNum(1))
	node.Object["@1"] = NewNumber(IntNum(2))

	out, err := Dump(node)
	require.NoError(t, err)
	// Dump serializes the shadow node as-is: a JSON object keyed "@0"/"@1",
	// not the array it denormalizes to at persist time.
	require.Contains(t, string(out), `"@0":1`)
	require.Contains(t, string(out), `"@1":2`)
}

func TestEncodeIndentMatchesPersistFormat(t *testing.T) {
	decoded, err := Decode([]byte(`{"a":1,"b":[1,2]}`))
	require.NoError(t, err)
	node, err := Normalize(decoded, true)
	require.NoError(t, err)
	value := Denormalize(node)

	out, err := EncodeIndent(value, "  ")
	require.NoError(t, err)
	require.Contains(t, string(out), "\n  \"a\": 1")
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	out, err := Encode(map[string]any{"tag": "<b>&</b>"})
	require.NoError(t, err)
	require.Contains(t, string(out), "<b>&</b>")
}
