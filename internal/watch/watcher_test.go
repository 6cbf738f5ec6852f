package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpipe/internal/content"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := map[string]bool{
		"/c/en/v1/page.md":      false,
		"/c/en/v1/.page.md.swp": true,
		"/c/en/v1/page.md~":     true,
		"/c/en/v1/page.md.swp":  true,
		"/c/en/v1/#page.md#":    true,
		"/c/en/v1/_sidebar.yml": false,
	}
	for p, want := range tests {
		assert.Equal(t, want, shouldIgnoreEvent(p), p)
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	req, trigger, stop := newDebouncer(20 * time.Millisecond)
	defer stop()

	for range 5 {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("debounced request not delivered")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerStop(t *testing.T) {
	req, trigger, stop := newDebouncer(20 * time.Millisecond)
	trigger()
	stop()
	trigger()

	select {
	case <-req:
		t.Fatal("stopped debouncer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRun_RebuildsAndInvalidates(t *testing.T) {
	root := t.TempDir()
	doc := filepath.Join(root, "en", "v1", "index.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(doc), 0o750))
	require.NoError(t, os.WriteFile(doc, []byte("---\ntitle: A\n---\n"), 0o600))

	cache, err := content.NewCache(8)
	require.NoError(t, err)
	cache.Add(doc, &content.Document{Slug: ""})

	var rebuilds atomic.Int32
	w := New(root, cache, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	}, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(doc, []byte("---\ntitle: B\n---\n"), 0o600)
		return rebuilds.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	_, cached := cache.Get(doc)
	assert.False(t, cached)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
