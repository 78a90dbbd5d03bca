package trees

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathIndex(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"BasicInsertAndLookup", testPathIndexBasicInsertAndLookup},
		{"FirstNodeKeepsPath", testPathIndexFirstNodeKeepsPath},
		{"NormalizePath", testPathIndexNormalizePath},
		{"Validation", testPathIndexValidation},
		{"BackslashIsNameByte", testPathIndexBackslashIsNameByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testPathIndexBasicInsertAndLookup(t *testing.T) {
	idx := NewPathIndex()

	paths := []string{
		"/home/user/documents",
		"/home/user/downloads",
		"/var/log/system",
	}

	nodes := make([]*Node, len(paths))
	for i, p := range paths {
		nodes[i] = &Node{fullPath: p}
		require.NoError(t, idx.Insert(nodes[i]), "Insert should succeed for path: %s", p)
	}

	for i, p := range paths {
		found, exists := idx.Lookup(p)
		assert.True(t, exists, "Path should exist: %s", p)
		assert.Same(t, nodes[i], found)
	}

	for _, p := range []string{"/home/user/videos", "/nonexistent", ""} {
		found, exists := idx.Lookup(p)
		assert.False(t, exists, "Non-existent path should not be found: %s", p)
		assert.Nil(t, found)
	}

	assert.Len(t, idx.PrefixLookup("/home/user"), 2)
	assert.Empty(t, idx.PrefixLookup("/nonexistent"))
	assert.Equal(t, int64(len(paths)), idx.Size())

	stats := idx.Stats()
	assert.Equal(t, int64(3), stats.Insertions)
	assert.Equal(t, int64(2), stats.PrefixLookups)

	assert.Error(t, idx.Insert(nil))
}

func testPathIndexFirstNodeKeepsPath(t *testing.T) {
	idx := NewPathIndex()
	first := &Node{fullPath: "/a/b"}
	second := &Node{fullPath: "/a/b/"}

	require.NoError(t, idx.Insert(first))
	require.NoError(t, idx.Insert(first), "re-inserting the same node is harmless")
	assert.ErrorIs(t, idx.Insert(second), ErrPathIndexed)

	found, ok := idx.Lookup("/a/b")
	require.True(t, ok)
	assert.Same(t, first, found)
	assert.Equal(t, int64(1), idx.Size())
	assert.Equal(t, int64(1), idx.Stats().Rejected)
}

func testPathIndexNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/a/b/":     "/a/b",
		"/a//b":     "/a/b",
		"/a/./b":    "/a/b",
		"/a/c/../b": "/a/b",
		"/":         "/",
		".":         ".",
		"":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizePath(in), "normalizePath(%q)", in)
	}

	if filepath.Separator == '\\' {
		assert.Equal(t, "/a/b", normalizePath(`\a\b`))
	} else {
		assert.Equal(t, `/a\b`, normalizePath(`/a\b`))
	}
}

func testPathIndexBackslashIsNameByte(t *testing.T) {
	if filepath.Separator == '\\' {
		t.Skip("backslash is the path separator")
	}

	idx := NewPathIndex()
	escaped := &Node{fullPath: `/r/a\b`}
	nested := &Node{fullPath: "/r/a/b"}
	require.NoError(t, idx.Insert(escaped))
	require.NoError(t, idx.Insert(nested))

	found, ok := idx.Lookup(`/r/a\b`)
	require.True(t, ok)
	assert.Same(t, escaped, found)

	found, ok = idx.Lookup("/r/a/b")
	require.True(t, ok)
	assert.Same(t, nested, found)
	assert.Equal(t, int64(2), idx.Size())
}

func testPathIndexValidation(t *testing.T) {
	idx := NewPathIndex()
	require.NoError(t, idx.Insert(&Node{fullPath: "/a"}))
	require.NoError(t, idx.Insert(&Node{fullPath: "/a/b"}))
	assert.Empty(t, idx.Validate())

	// Corrupt the counters directly.
	idx.stats.TotalNodes = 5
	assert.NotEmpty(t, idx.Validate())
}
