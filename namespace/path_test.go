package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Segments(t *testing.T) {
	assert.Equal(t, []string{"system", "io", "file"}, Path("system.io.file").Segments())
	assert.Equal(t, []string{"system"}, Path("system").Segments())
	assert.Nil(t, Path("").Segments())
}

func TestPath_ParentChildBase(t *testing.T) {
	p := Path("system.io.file")
	assert.Equal(t, Path("system.io"), p.Parent())
	assert.Equal(t, "file", p.Base())
	assert.Equal(t, Path("system.io.file.read"), p.Child("read"))

	assert.Equal(t, Path(""), Path("system").Parent())
	assert.Equal(t, "system", Path("system").Base())
	assert.Equal(t, Path("system"), Path("").Child("system"))
}

func TestPath_HasPrefix(t *testing.T) {
	assert.True(t, Path("system.io.file").HasPrefix("system.io"))
	assert.True(t, Path("system.io").HasPrefix("system.io"))
	assert.True(t, Path("system.io").HasPrefix(""))

	// Prefixes only count on whole-segment boundaries.
	assert.False(t, Path("system.iodine").HasPrefix("system.io"))
	assert.False(t, Path("system").HasPrefix("system.io"))
}

func TestPath_IsValid(t *testing.T) {
	tests := []struct {
		path  Path
		valid bool
	}{
		{"system", true},
		{"system.io.file", true},
		{"", false},
		{".system", false},
		{"system.", false},
		{"system..io", false},
		{"*", false},
		{"system.*", false},
		{"system.*.file", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.path.IsValid(), "path %q", tt.path)
	}
}

func TestPath_IsValidPattern(t *testing.T) {
	tests := []struct {
		pattern Path
		valid   bool
	}{
		{"system", true},
		{"system.io.file", true},
		{"system.io.*", true},
		{"*", true},
		{"", false},
		{"*.io", false},
		{"system.*.file", false},
		{"system..*", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.pattern.IsValidPattern(), "pattern %q", tt.pattern)
	}
}

func TestPath_Matches_Literal(t *testing.T) {
	assert.True(t, Path("system.alert").Matches("system.alert"))
	assert.False(t, Path("system.alert").Matches("system"))
	assert.False(t, Path("system").Matches("system.alert"))
}

func TestPath_Matches_Wildcard(t *testing.T) {
	assert.True(t, Path("system.io.file").Matches("system.io.*"))
	assert.True(t, Path("system.io.file.read").Matches("system.io.*"))
	assert.True(t, Path("system.io.file").Matches("system.*"))

	// The wildcard covers strictly below the registration point.
	assert.False(t, Path("system.io").Matches("system.io.*"))
	assert.False(t, Path("system").Matches("system.*"))
	assert.False(t, Path("other.io.file").Matches("system.io.*"))
}

func TestPath_Matches_RootWildcard(t *testing.T) {
	assert.True(t, Path("system").Matches("*"))
	assert.True(t, Path("system.io.file").Matches("*"))
	assert.False(t, Path("").Matches("*"))
}

func TestPath_Wildcard(t *testing.T) {
	assert.True(t, Path("*").IsWildcard())
	assert.True(t, Path("system.*").IsWildcard())
	assert.False(t, Path("system").IsWildcard())

	assert.Equal(t, Path(""), Path("*").Prefix())
	assert.Equal(t, Path("system.io"), Path("system.io.*").Prefix())
	assert.Equal(t, Path("system.io"), Path("system.io").Prefix())
}

func TestJoinSplit(t *testing.T) {
	assert.Equal(t, Path("a.b.c"), Join("a", "b", "c"))
	assert.Equal(t, []string{"a", "b", "c"}, Split("a.b.c"))
	assert.Nil(t, Split(""))
}

func TestSort(t *testing.T) {
	paths := []Path{"b", "a.c", "a"}
	Sort(paths)
	assert.Equal(t, []Path{"a", "a.c", "b"}, paths)
}
