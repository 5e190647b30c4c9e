package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParentPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"nested", "a/b/c", "a/b"},
		{"single segment", "a", "a"},
		{"absolute", "/a/b", "/a"},
		{"root child", "/a", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParentPath(tt.path))
		})
	}
}

func TestIsWithin(t *testing.T) {
	assert.True(t, IsWithin("/content/bp", "/content/bp"))
	assert.True(t, IsWithin("/content/bp/page", "/content/bp"))
	assert.False(t, IsWithin("/content/bp2", "/content/bp"))
	assert.False(t, IsWithin("/content", "/content/bp"))
	assert.True(t, IsWithin("/a", "/"))
	assert.True(t, IsWithin("/", "/"))
	assert.True(t, IsWithin("/content/bp/page", "/content/bp/"))
}

func TestRelativePath(t *testing.T) {
	assert.Equal(t, "/page", RelativePath("/content/bp/page", "/content/bp"))
	assert.Empty(t, RelativePath("/content/bp", "/content/bp"))
	assert.Equal(t, "/a/b", RelativePath("/a/b", "/"))
	assert.Empty(t, RelativePath("/", "/"))
}

func TestIsExcluded(t *testing.T) {
	exclusions := NewExclusions("a/b", "x")

	tests := []struct {
		name     string
		syncPath string
		want     bool
	}{
		{"exact match", "a/b", true},
		{"leading separator", "/a/b", true},
		{"descendant of excluded", "/a/b/c/d", true},
		{"excluded single segment ancestor", "/x/y", true},
		{"sibling", "/a/c", false},
		{"ancestor of excluded", "/a", false},
		{"prefix but not ancestor", "/a/bc", false},
		{"unrelated", "/z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExcluded(tt.syncPath, exclusions))
		})
	}
}

func TestIsExcluded_EmptyExclusions(t *testing.T) {
	assert.False(t, IsExcluded("/a/b", nil))
	assert.False(t, IsExcluded("/a/b", NewExclusions()))
}
