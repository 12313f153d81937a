package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrie_InsertContains(t *testing.T) {
	tr := NewTrie()

	assert.True(t, tr.Insert("system.io.file"))
	assert.True(t, tr.Insert("system.io.*"))
	assert.False(t, tr.Insert("system.io.file"), "duplicate insert")
	assert.False(t, tr.Insert(""), "empty pattern")

	assert.True(t, tr.Contains("system.io.file"))
	assert.True(t, tr.Contains("system.io.*"))
	assert.False(t, tr.Contains("system.io"))
	assert.Equal(t, 2, tr.Size())
}

func TestTrie_Match_Literal(t *testing.T) {
	tr := NewTrie()
	tr.Insert("system.alert")
	tr.Insert("system.other")

	matches := tr.Match("system.alert")
	require.Len(t, matches, 1)
	assert.Equal(t, Path("system.alert"), matches[0])

	assert.Empty(t, tr.Match("system"))
	assert.Empty(t, tr.Match("system.alert.sub"))
}

func TestTrie_Match_Wildcard(t *testing.T) {
	tr := NewTrie()
	tr.Insert("system.io.*")

	assert.Equal(t, []Path{"system.io.*"}, tr.Match("system.io.file"))
	assert.Equal(t, []Path{"system.io.*"}, tr.Match("system.io.file.read"))

	// Strictly below only.
	assert.Empty(t, tr.Match("system.io"))
	assert.Empty(t, tr.Match("system"))
	assert.Empty(t, tr.Match("other.io.file"))
}

func TestTrie_Match_RootWildcard(t *testing.T) {
	tr := NewTrie()
	tr.Insert("*")

	assert.Equal(t, []Path{"*"}, tr.Match("anything"))
	assert.Equal(t, []Path{"*"}, tr.Match("a.b.c"))
}

func TestTrie_Match_Union(t *testing.T) {
	tr := NewTrie()
	tr.Insert("*")
	tr.Insert("a.*")
	tr.Insert("a.b.*")
	tr.Insert("a.b.c")

	matches := tr.Match("a.b.c")
	assert.ElementsMatch(t, []Path{"*", "a.*", "a.b.*", "a.b.c"}, matches)

	matches = tr.Match("a.b")
	assert.ElementsMatch(t, []Path{"*", "a.*"}, matches)
}

func TestTrie_Delete(t *testing.T) {
	tr := NewTrie()
	tr.Insert("system.io.file")
	tr.Insert("system.io.*")

	assert.True(t, tr.Delete("system.io.file"))
	assert.False(t, tr.Delete("system.io.file"), "double delete")
	assert.False(t, tr.Contains("system.io.file"))
	assert.True(t, tr.Contains("system.io.*"))
	assert.Equal(t, 1, tr.Size())

	assert.True(t, tr.Delete("system.io.*"))
	assert.Equal(t, 0, tr.Size())
	assert.Empty(t, tr.All())
}

func TestTrie_Delete_PrunesSharedPrefix(t *testing.T) {
	tr := NewTrie()
	tr.Insert("a.b.c")
	tr.Insert("a.b.d")

	require.True(t, tr.Delete("a.b.c"))

	// The sibling under the shared prefix still resolves.
	assert.Equal(t, []Path{"a.b.d"}, tr.Match("a.b.d"))
	assert.Empty(t, tr.Match("a.b.c"))
}

func TestTrie_Clear(t *testing.T) {
	tr := NewTrie()
	tr.Insert("a.b")
	tr.Insert("c.*")

	tr.Clear()
	assert.Equal(t, 0, tr.Size())
	assert.Empty(t, tr.Match("a.b"))
}
