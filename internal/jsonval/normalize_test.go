package jsonval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, text string) any {
	t.Helper()
	decoded, err := Decode([]byte(text))
	require.NoError(t, err)
	node, err := Normalize(decoded, true)
	require.NoError(t, err)
	return Denormalize(node)
}

func TestNormalizeRoundTripObject(t *testing.T) {
	got := roundTrip(t, `{"name":"bob","age":42,"pi":3.5,"ok":true,"nothing":null}`)
	m, ok := got.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "bob", m["name"])
	require.Equal(t, true, m["ok"])
	require.Nil(t, m["nothing"])
}

func TestNormalizeArrayBecomesObjectThenRoundTrips(t *testing.T) {
	decoded, err := Decode([]byte(`{"items":[10,20,30]}`))
	require.NoError(t, err)
	node, err := Normalize(decoded, true)
	require.NoError(t, err)

	items, ok := node.Object["items"]
	require.True(t, ok)
	require.True(t, items.IsObject())
	require.Len(t, items.Object, 3)
	require.Contains(t, items.Object, "@0")
	require.Contains(t, items.Object, "@1")
	require.Contains(t, items.Object, "@2")

	back := Denormalize(node)
	m := back.(map[string]any)
	arr, ok := m["items"].([]any)
	require.True(t, ok)
	require.Len(t, arr, 3)
}

func TestNormalizeRootScalarIsWrapped(t *testing.T) {
	decoded, err := Decode([]byte(`42`))
	require.NoError(t, err)
	node, err := Normalize(decoded, true)
	require.NoError(t, err)
	require.True(t, node.IsObject())
	require.Contains(t, node.Object, "@scalar")

	back := Denormalize(node)
	num, ok := back.(Num)
	require.True(t, ok)
	require.False(t, num.IsReal)
	require.Equal(t, int64(42), num.Int)
}

func TestEscapeSlashInKeyRoundTrips(t *testing.T) {
	decoded, err := Decode([]byte(`{"a/b":1}`))
	require.NoError(t, err)
	node, err := Normalize(decoded, true)
	require.NoError(t, err)
	require.Contains(t, node.Object, "a@2Fb")

	back := Denormalize(node)
	m := back.(map[string]any)
	require.Contains(t, m, "a/b")
}
