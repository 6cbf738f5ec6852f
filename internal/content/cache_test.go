package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_LoaderUsesCache(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "en/v1/a.md", page("Before", 1))

	cache, err := NewCache(16)
	require.NoError(t, err)
	loader := NewLoader(root, WithCache(cache))

	first, err := loader.Load("en/v1/a.md")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	writeDoc(t, root, "en/v1/a.md", page("After", 1))

	cached, err := loader.Load("en/v1/a.md")
	require.NoError(t, err)
	assert.Same(t, first, cached)
	assert.Equal(t, "Before", cached.Frontmatter.Title)

	assert.Equal(t, 1, cache.Invalidate(filepath.Join(root, "en", "v1", "a.md")))

	fresh, err := loader.Load("en/v1/a.md")
	require.NoError(t, err)
	assert.Equal(t, "After", fresh.Frontmatter.Title)
}

func TestCache_InvalidateDirectory(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "en/v1/guides/a.md", page("A", 1))
	writeDoc(t, root, "en/v1/guides/b.md", page("B", 2))
	writeDoc(t, root, "en/v1/other.md", page("Other", 3))

	cache, err := NewCache(0)
	require.NoError(t, err)

	_, err = LoadAll(root, "en", "v1", WithCache(cache))
	require.NoError(t, err)
	assert.Equal(t, 3, cache.Len())

	assert.Equal(t, 2, cache.Invalidate(filepath.Join(root, "en", "v1", "guides")))
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestCache_FailedLoadIsNotCached(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "en/v1/bad.md", "---\ntitle: Bad\n---\n")

	cache, err := NewCache(4)
	require.NoError(t, err)
	loader := NewLoader(root, WithCache(cache))

	_, err = loader.Load("en/v1/bad.md")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	require.NoError(t, os.Remove(filepath.Join(root, "en", "v1", "bad.md")))
	_, err = loader.Load("en/v1/bad.md")
	require.Error(t, err)
}
