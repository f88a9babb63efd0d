package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

type urlListenerFunc func(node driven.ExternalNode, field int)

func (f urlListenerFunc) URLChanged(node driven.ExternalNode, field int) { f(node, field) }

func TestContentHandler_Kind(t *testing.T) {
	h := NewContentHandler(nil, nil)
	assert.Equal(t, ContentHandlerKind, h.Kind())
}

func TestContentHandler_InstallsIntoEveryConsumer(t *testing.T) {
	loader := newMockLoader()
	loader.serve("http://x/a.txt", "text/plain; charset=utf-8", "hello")
	cache := newMockCache()
	progress := &mockProgress{}
	reporter := &mockReporter{}
	h := NewContentHandler(loader, cache, WithProgress(progress))

	listener := urlListenerFunc(func(driven.ExternalNode, int) {})
	a := newMockNode("A", domain.NodeTypeTexture, "http://x/a.txt")
	b := newMockNode("B", domain.NodeTypeTexture, "http://x/a.txt")
	da, db := detailsFor(a), detailsFor(b)
	da.Listener = listener
	db.Listener = listener

	out := h.ProcessLoadRequest(context.Background(), reporter, a.URLs(0), newConsumers(da, db))

	assert.Equal(t, 2, out.Completed)
	assert.Equal(t, "http://x/a.txt", out.URL)
	assert.Equal(t, "text/plain", out.ContentType)
	assert.False(t, out.FromCache)
	assert.NoError(t, out.Err)
	for _, n := range []*mockNode{a, b} {
		assert.Equal(t, domain.LoadComplete, n.LoadState(0))
		assert.Equal(t, "hello", n.contentOf(0))
		assert.Equal(t, "http://x/a.txt", n.loadedFrom(0))
		assert.Equal(t, 1, n.listenerCount())
	}
	assert.Equal(t, 1, loader.openCount("http://x/a.txt"))
	assert.True(t, loader.allClosed())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, []string{"http://x/a.txt"}, progress.started)
	assert.Equal(t, []string{"http://x/a.txt"}, progress.ended)
	assert.Equal(t, 0, reporter.warningCount())
}

func TestContentHandler_FallsBackToNextCandidate(t *testing.T) {
	loader := newMockLoader()
	loader.fail("http://x/missing.png", errors.New("connection refused"))
	loader.serve("http://x/ok.png", "image/png", "pixels")
	reporter := &mockReporter{}
	h := NewContentHandler(loader, newMockCache())

	n := newMockNode("Tex", domain.NodeTypeTexture, "http://x/missing.png", "http://x/ok.png")

	out := h.ProcessLoadRequest(context.Background(), reporter, n.URLs(0), newConsumers(detailsFor(n)))

	assert.True(t, out.Success())
	assert.Equal(t, "http://x/ok.png", out.URL)
	assert.Equal(t, "pixels", n.contentOf(0))
	assert.Equal(t, "http://x/ok.png", n.loadedFrom(0))
	assert.Equal(t, 0, reporter.warningCount(), "individual candidate failures are not reported")
}

func TestContentHandler_AllCandidatesFailReportsOnce(t *testing.T) {
	loader := newMockLoader()
	loader.fail("http://x/1.png", errors.New("boom"))
	loader.fail("http://x/2.png", errors.New("boom"))
	reporter := &mockReporter{}
	h := NewContentHandler(loader, nil)

	a := newMockNode("A", domain.NodeTypeTexture, "http://x/1.png", "http://x/2.png")
	b := newMockNode("B", domain.NodeTypeTexture, "http://x/1.png", "http://x/2.png")

	out := h.ProcessLoadRequest(context.Background(), reporter, a.URLs(0), newConsumers(detailsFor(a), detailsFor(b)))

	assert.False(t, out.Success())
	assert.Equal(t, 2, out.Failed)
	assert.ErrorIs(t, out.Err, domain.ErrAllURLsFailed)
	assert.Equal(t, domain.LoadFailed, a.LoadState(0))
	assert.Equal(t, domain.LoadFailed, b.LoadState(0))
	require.Equal(t, 1, reporter.warningCount())
	assert.Equal(t, "Unable to load http://x/1.png", reporter.warnings[0].msg)
}

func TestContentHandler_CacheHitSkipsTransport(t *testing.T) {
	loader := newMockLoader()
	cache := newMockCache()
	cache.CacheFile("http://x/shader.glsl", "text/plain", "void main(){}")
	h := NewContentHandler(loader, cache)

	n := newMockNode("Shader", domain.NodeTypeShader, "http://x/shader.glsl#frag")

	out := h.ProcessLoadRequest(context.Background(), &mockReporter{}, n.URLs(0), newConsumers(detailsFor(n)))

	assert.True(t, out.FromCache)
	assert.Equal(t, "void main(){}", n.contentOf(0))
	assert.Equal(t, 0, loader.openCount("http://x/shader.glsl"))
}

func TestContentHandler_ImageCachePolicy(t *testing.T) {
	tests := []struct {
		name        string
		cacheImages bool
		wantEntries int
	}{
		{"images not cached by default", false, 0},
		{"images cached when enabled", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newMockLoader()
			loader.serve("http://x/t.png", "image/png", "pixels")
			cache := newMockCache()
			h := NewContentHandler(loader, cache, WithCachedImages(tt.cacheImages))
			n := newMockNode("Tex", domain.NodeTypeTexture, "http://x/t.png")

			h.ProcessLoadRequest(context.Background(), &mockReporter{}, n.URLs(0), newConsumers(detailsFor(n)))

			assert.Equal(t, tt.wantEntries, cache.Len())
		})
	}
}

func TestContentHandler_InlineSceneQueuedNotCached(t *testing.T) {
	scene := &mockScene{}
	loader := newMockLoader()
	loader.serve("http://x/inline.x3dv", "model/x3d+vrml", scene)
	cache := newMockCache()
	queuer := &mockSceneQueuer{}
	h := NewContentHandler(loader, cache, WithSceneQueuer(queuer))

	n := newMockNode("Inline", domain.NodeTypeInline, "http://x/inline.x3dv")

	out := h.ProcessLoadRequest(context.Background(), &mockReporter{}, n.URLs(0), newConsumers(detailsFor(n)))

	assert.True(t, out.Success())
	assert.Equal(t, 0, cache.Len())
	require.Equal(t, 1, queuer.count())
	assert.Same(t, scene, queuer.scenes[0])
}

func TestContentHandler_RejectedContentTypeTriesNext(t *testing.T) {
	loader := newMockLoader()
	loader.serve("http://x/a", "text/html", "<html>")
	loader.serve("http://x/b", "audio/wav", "samples")
	reporter := &mockReporter{}
	h := NewContentHandler(loader, nil)

	n := newMockNode("Sound", domain.NodeTypeAudio, "http://x/a", "http://x/b")
	n.accepts = func(ct string) bool { return ct == "audio/wav" }

	out := h.ProcessLoadRequest(context.Background(), reporter, n.URLs(0), newConsumers(detailsFor(n)))

	assert.True(t, out.Success())
	assert.Equal(t, "http://x/b", n.loadedFrom(0))
	assert.Equal(t, "samples", n.contentOf(0))
}

func TestContentHandler_NoConsumerAcceptsType(t *testing.T) {
	loader := newMockLoader()
	loader.serve("http://x/a", "text/html", "<html>")
	reporter := &mockReporter{}
	h := NewContentHandler(loader, nil)

	n := newMockNode("Sound", domain.NodeTypeAudio, "http://x/a")
	n.accepts = func(string) bool { return false }

	out := h.ProcessLoadRequest(context.Background(), reporter, n.URLs(0), newConsumers(detailsFor(n)))

	assert.ErrorIs(t, out.Err, domain.ErrUnsupportedContentType)
	assert.Equal(t, domain.LoadFailed, n.LoadState(0))
	assert.Equal(t, 1, reporter.warningCount())
}

func TestContentHandler_StaleConsumerDiscarded(t *testing.T) {
	loader := newMockLoader()
	loader.serve("http://x/old.png", "image/png", "old")
	reporter := &mockReporter{}
	h := NewContentHandler(loader, nil)

	n := newMockNode("Tex", domain.NodeTypeTexture, "http://x/old.png")
	d := detailsFor(n)
	n.setURLs(0, "http://x/new.png")

	out := h.ProcessLoadRequest(context.Background(), reporter, []string{"http://x/old.png"}, newConsumers(d))

	assert.Equal(t, 0, out.Completed)
	assert.Equal(t, 0, out.Failed)
	assert.Equal(t, 1, out.Skipped)
	assert.Nil(t, n.contentOf(0))
	assert.Equal(t, domain.NotLoaded, n.LoadState(0))
	assert.Equal(t, 0, reporter.warningCount())
}

func TestContentHandler_SkipsWhenAllComplete(t *testing.T) {
	loader := newMockLoader()
	h := NewContentHandler(loader, nil)
	n := newMockNode("Tex", domain.NodeTypeTexture, "http://x/a.png")
	n.SetLoadState(0, domain.LoadComplete)

	out := h.ProcessLoadRequest(context.Background(), &mockReporter{}, n.URLs(0), newConsumers(detailsFor(n)))

	assert.Equal(t, 1, out.Skipped)
	assert.Equal(t, 0, loader.openCount("http://x/a.png"))
}

func TestContentHandler_SetContentErrorReported(t *testing.T) {
	loader := newMockLoader()
	loader.serve("http://x/a.png", "image/png", "pixels")
	reporter := &mockReporter{}
	h := NewContentHandler(loader, nil)

	n := newMockNode("Tex", domain.NodeTypeTexture, "http://x/a.png")
	n.setErr = errors.New("bad image")

	out := h.ProcessLoadRequest(context.Background(), reporter, n.URLs(0), newConsumers(detailsFor(n)))

	assert.False(t, out.Success())
	assert.Equal(t, 1, reporter.errorCount())
	assert.Equal(t, domain.LoadFailed, n.LoadState(0))
}

func TestContentHandler_AbortResetsLoading(t *testing.T) {
	loader := newMockLoader()
	release := loader.block("http://x/slow.png", "image/png", "pixels")
	defer close(release)
	loader.started = make(chan string, 1)
	reporter := &mockReporter{}
	h := NewContentHandler(loader, nil)

	n := newMockNode("Tex", domain.NodeTypeTexture, "http://x/slow.png")
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan domain.LoadOutcome, 1)

	go func() {
		result <- h.ProcessLoadRequest(ctx, reporter, n.URLs(0), newConsumers(detailsFor(n)))
	}()

	<-loader.started
	assert.Equal(t, domain.Loading, n.LoadState(0))
	cancel()

	select {
	case out := <-result:
		assert.True(t, out.Aborted)
		assert.ErrorIs(t, out.Err, domain.ErrAborted)
	case <-time.After(time.Second):
		t.Fatal("handler did not observe cancellation")
	}
	assert.Equal(t, domain.NotLoaded, n.LoadState(0))
	assert.Equal(t, 0, reporter.warningCount())
}

func TestCacheable(t *testing.T) {
	tests := []struct {
		contentType string
		cacheImages bool
		want        bool
	}{
		{"text/plain", false, true},
		{"image/png", false, false},
		{"image/png", true, true},
		{"model/x3d+xml", true, false},
		{"model/vrml", false, false},
		{"audio/wav", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, cacheable(tt.contentType, tt.cacheImages))
		})
	}
}
