package jsonv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsKeyOrder(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`{"zeta":1,"alpha":"a","mid":[true,null,{"k":2.5}]}`))
	require.NoError(t, err)

	obj, ok := AsObject(v)
	require.True(t, ok)

	keys := make([]string, 0, obj.Len())
	for _, f := range obj.Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	s, ok := obj.String("alpha")
	assert.True(t, ok)
	assert.Equal(t, "a", s)

	_, ok = obj.String("zeta")
	assert.False(t, ok, "number is not a string")

	arr, ok := obj.Array("mid")
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Equal(t, Bool(true), arr[0])
	assert.True(t, IsNull(arr[1]))
	inner, ok := AsObject(arr[2])
	require.True(t, ok)
	n, _ := inner.Get("k")
	f, err := n.(Number).Float64()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f, 1e-9)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{``, `{`, `[1,]`, `{"a":}`} {
		_, err := Parse([]byte(in))
		assert.ErrorIs(t, err, ErrInvalid, "input %q", in)
	}
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`{"a":"first","b":"x","a":"second"}`))
	require.NoError(t, err)
	obj, _ := AsObject(v)

	assert.Equal(t, 2, obj.Len())
	s, _ := obj.String("a")
	assert.Equal(t, "second", s)
	assert.Equal(t, "a", obj.Fields()[0].Key)
}

func TestMarshal_RoundTripPreservesOrder(t *testing.T) {
	t.Parallel()

	in := `{"b":[1,"two",false,null],"a":{"y":"\"q\"","x":-3e2}}`
	v, err := Parse([]byte(in))
	require.NoError(t, err)

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestWalk_PreOrderPaths(t *testing.T) {
	t.Parallel()

	doc := `{
		"hwi": {"hw": "go", "prs": [{"mw": "gō"}]},
		"vrs": [{"va": "goe"}],
		"dros": [{"drp": "go on", "vrs": [{"va": "go-on"}]}],
		"shortdef": ["to move"]
	}`
	v, err := Parse([]byte(doc))
	require.NoError(t, err)

	var paths []string
	for n := range Walk(v) {
		paths = append(paths, n.Path)
	}

	assert.Equal(t, []string{
		"$",
		"$.hwi",
		"$.hwi.prs[0]",
		"$.vrs[0]",
		"$.dros[0]",
		"$.dros[0].vrs[0]",
	}, paths)
}

func TestWalk_RootArray(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`[{"a":1},[{"b":2}],"s"]`))
	require.NoError(t, err)

	var paths []string
	for n := range Walk(v) {
		paths = append(paths, n.Path)
	}
	assert.Equal(t, []string{"$[0]", "$[1][0]"}, paths)
}

func TestWalk_StopsEarly(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`{"a":{"b":{"c":{}}}}`))
	require.NoError(t, err)

	count := 0
	for range Walk(v) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestWalk_Restartable(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`{"a":[{"b":1},{"c":2}]}`))
	require.NoError(t, err)

	seq := Walk(v)
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
}
