package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewURLSetKey_OrderInsensitive(t *testing.T) {
	a := NewURLSetKey("content", []string{"http://x/a.png", "http://x/b.png"})
	b := NewURLSetKey("content", []string{"http://x/b.png", "http://x/a.png"})
	assert.Equal(t, a, b)
}

func TestNewURLSetKey_DeduplicatesAndTrims(t *testing.T) {
	a := NewURLSetKey("content", []string{" http://x/a.png", "http://x/a.png", ""})
	b := NewURLSetKey("content", []string{"http://x/a.png"})
	assert.Equal(t, a, b)
}

func TestNewURLSetKey_KindMatters(t *testing.T) {
	a := NewURLSetKey("content", []string{"http://x/a.js"})
	b := NewURLSetKey("script", []string{"http://x/a.js"})
	assert.NotEqual(t, a, b)
	assert.Equal(t, "script", b.Kind())
	assert.Equal(t, "content", NewURLSetKey("content", nil).Kind())
}

func TestStripFragment(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"http://x/world.wrl#Viewpoint1", "http://x/world.wrl"},
		{"http://x/a.png", "http://x/a.png"},
		{"  file:///tmp/a.png#x ", "file:///tmp/a.png"},
		{"ecmascript: function f() { return '#'; }", "ecmascript: function f() { return '#'; }"},
		{"javascript:a#b", "javascript:a#b"},
		{"#only", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFragment(tt.in))
		})
	}
}

func TestCleanURLs(t *testing.T) {
	out := CleanURLs([]string{"#x", "http://a/b#c", "", "vrmlscript:1"})
	assert.Equal(t, []string{"http://a/b", "vrmlscript:1"}, out)
}

func TestIsInlineScriptURL(t *testing.T) {
	assert.True(t, IsInlineScriptURL("ECMAScript:1+1;"))
	assert.True(t, IsInlineScriptURL("javascript:x"))
	assert.False(t, IsInlineScriptURL("http://x/script.js"))
}

func TestContentTypeHelpers(t *testing.T) {
	assert.Equal(t, "text/plain", BaseContentType("Text/Plain; charset=utf-8"))
	assert.True(t, IsSceneContentType("model/x3d+xml"))
	assert.True(t, IsSceneContentType("model/vrml; charset=utf-8"))
	assert.False(t, IsSceneContentType("image/png"))
	assert.True(t, IsImageContentType("image/png"))
	assert.False(t, IsImageContentType("audio/wav"))
}
