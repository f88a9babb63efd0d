package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

const sampleManifest = `
nodes:
  - name: Proto
    type: externproto
    url: [protos/button.wrl]
  - name: Brick
    type: texture
    url: [textures/brick.png, http://cdn.example.com/brick.png]
  - name: Sky
    type: texture
    root: false
    fields:
      - name: frontUrl
        url: [sky/front.png]
      - name: backUrl
        url: [sky/back.png]
        accepts: [image/png]
  - name: Logic
    type: script
    version: 2
    url: ["javascript:function initialize() {}"]
  - name: Film
    type: movie
    url: [film.mpg]
routes:
  - from: Logic.out
    to: Brick.set_url
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleManifest), "http://example.com/worlds/main.yaml")
	require.NoError(t, err)

	assert.Len(t, s.Nodes(), 5)
	assert.Len(t, s.ExternProtos(), 1)
	assert.Len(t, s.MultiURLNodes(), 1)
	assert.Len(t, s.SingleURLNodes(), 3)
	assert.Len(t, s.RootChildren(), 4)

	brick, ok := s.Node("Brick")
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypeTexture, brick.PrimaryType())
	assert.Equal(t, []string{
		"http://example.com/worlds/textures/brick.png",
		"http://cdn.example.com/brick.png",
	}, brick.URLs(0))
	assert.True(t, brick.CheckValidContentType(0, "image/png"))
	assert.False(t, brick.CheckValidContentType(0, "text/plain"))

	sky, ok := s.Node("Sky")
	require.True(t, ok)
	back, ok := sky.FieldIndex("backUrl")
	require.True(t, ok)
	assert.True(t, sky.CheckValidContentType(back, "image/png"))
	assert.False(t, sky.CheckValidContentType(back, "image/jpeg"))

	logic, ok := s.Node("Logic")
	require.True(t, ok)
	assert.Equal(t, domain.SpecVRML97, logic.SpecVersion())
	assert.Equal(t, []string{"javascript:function initialize() {}"}, logic.URLs(0))
	assert.True(t, logic.CheckValidContentType(0, "application/javascript"))

	film, ok := s.Node("Film")
	require.True(t, ok)
	assert.Equal(t, domain.SortMovies, domain.ClassifyNode(film.PrimaryType(), film.SecondaryTypes()))

	assert.Equal(t, []domain.Route{
		{FromNode: "Logic", FromField: "out", ToNode: "Brick", ToField: "set_url"},
	}, s.Routes())
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, s.Nodes())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{name: "bad yaml", manifest: "nodes: [", contains: "parse manifest"},
		{name: "missing name", manifest: "nodes:\n  - type: texture\n", contains: "missing name"},
		{name: "unknown type", manifest: "nodes:\n  - name: A\n    type: hologram\n", contains: "unknown type"},
		{name: "unknown secondary", manifest: "nodes:\n  - name: A\n    type: texture\n    secondary: [smell]\n",
			contains: "unknown secondary"},
		{name: "bad version", manifest: "nodes:\n  - name: A\n    type: script\n    version: 7\n", contains: "unknown version"},
		{name: "duplicate", manifest: "nodes:\n  - name: A\n  - name: A\n", contains: "duplicate"},
		{name: "unnamed field", manifest: "nodes:\n  - name: A\n    fields:\n      - url: [a.png]\n",
			contains: "field without name"},
		{name: "bad route", manifest: "nodes:\n  - name: A\nroutes:\n  - from: A\n    to: A.b\n", contains: "Node.field"},
		{name: "route to unknown node", manifest: "nodes:\n  - name: A\nroutes:\n  - from: A.x\n    to: B.y\n",
			contains: "unknown node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.manifest), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestResolveURLs(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{name: "no base", base: "", ref: "a.png", want: "a.png"},
		{name: "http relative", base: "http://example.com/w/main.yaml", ref: "tex/a.png", want: "http://example.com/w/tex/a.png"},
		{name: "parent", base: "http://example.com/w/main.yaml", ref: "../a.png", want: "http://example.com/a.png"},
		{name: "file relative", base: "file:///worlds/main.yaml", ref: "a.png", want: "file:///worlds/a.png"},
		{name: "bare path base", base: "/worlds/main.yaml", ref: "a.png", want: "/worlds/a.png"},
		{name: "absolute", base: "http://example.com/w/main.yaml", ref: "https://cdn.example.com/a.png",
			want: "https://cdn.example.com/a.png"},
		{name: "inline script", base: "http://example.com/w/main.yaml", ref: "ecmascript:f()", want: "ecmascript:f()"},
		{name: "blank", base: "http://example.com/w/main.yaml", ref: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, ResolveURLs(tt.base, []string{tt.ref}))
		})
	}
}

func TestBuild_Nil(t *testing.T) {
	s, err := Build(nil, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", s.URL())
}
