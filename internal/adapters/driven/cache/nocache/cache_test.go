package nocache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_NeverStores(t *testing.T) {
	c := New()

	c.CacheFile("http://example.com/a.png", "image/png", []byte("png"))

	details, ok := c.CheckForFile("http://example.com/a.png")
	assert.False(t, ok)
	assert.Nil(t, details)
	assert.Equal(t, 0, c.Len())

	c.Evict("http://example.com/a.png")
	assert.Equal(t, 0, c.Len())
}
