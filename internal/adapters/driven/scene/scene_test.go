package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

func TestScene_Add_Groups(t *testing.T) {
	s := New("file:///scene.yaml")

	proto := NewNode("Proto", domain.NodeTypeProto)
	proto.AddField("url", []string{"proto.wrl"})
	tex := NewNode("Tex", domain.NodeTypeTexture)
	tex.AddField("url", []string{"a.png"})
	bg := NewNode("Background", domain.NodeTypeTexture)
	bg.AddField("frontUrl", []string{"front.png"})
	bg.AddField("backUrl", []string{"back.png"})

	s.Add(proto)
	s.AddRoot(tex)
	s.Add(bg)
	s.Add(nil)

	assert.Equal(t, "file:///scene.yaml", s.URL())
	assert.Equal(t, []driven.ExternalNode{proto}, s.ExternProtos())
	assert.Equal(t, []driven.ExternalNode{tex}, s.SingleURLNodes())
	assert.Equal(t, []driven.ExternalNode{bg}, s.MultiURLNodes())
	assert.Equal(t, []any{tex}, s.RootChildren())
	assert.Len(t, s.Nodes(), 3)

	got, ok := s.Node("Background")
	require.True(t, ok)
	assert.Same(t, bg, got)
	_, ok = s.Node("Missing")
	assert.False(t, ok)
}

func TestScene_Routes(t *testing.T) {
	s := New("")
	r := domain.Route{FromNode: "Timer", FromField: "fraction_changed", ToNode: "Interp", ToField: "set_fraction"}

	require.NoError(t, s.AddRoutes([]domain.Route{r}))
	assert.Equal(t, []domain.Route{r}, s.Routes())
}

func TestScene_Settled(t *testing.T) {
	s := New("")
	n := NewNode("Tex", domain.NodeTypeTexture)
	i := n.AddField("url", []string{"a.png"})
	s.Add(n)

	assert.False(t, s.Settled())
	n.SetLoadState(i, domain.LoadFailed)
	assert.True(t, s.Settled())
}

func TestBrowser(t *testing.T) {
	var replaced string
	b := NewBrowser(func(_ driven.WorldDocument, url string) {
		replaced = url
	})

	b.SetWorldLoading(true)
	assert.True(t, b.IsWorldLoading())

	doc := New("http://example.com/world.yaml")
	require.NoError(t, b.ReplaceWorld(doc, "http://example.com/world.yaml"))

	world, url := b.World()
	assert.Same(t, doc, world)
	assert.Equal(t, "http://example.com/world.yaml", url)
	assert.Equal(t, "http://example.com/world.yaml", replaced)
	assert.False(t, b.IsWorldLoading())

	b.SetMinimumFrameInterval(40)
	assert.Equal(t, int64(40), int64(b.FrameInterval()))
}
