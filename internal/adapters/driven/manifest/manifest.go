package manifest

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/scene"
	"github.com/custodia-labs/sceneload/internal/core/domain"
)

// ContentType is the MIME type of a scene manifest.
const ContentType = "model/x3d+yaml"

// Document is the YAML form of a scene.
type Document struct {
	Nodes  []NodeSpec  `yaml:"nodes"`
	Routes []RouteSpec `yaml:"routes"`
}

// NodeSpec declares one node. URL and Accepts describe a single field
// named "url"; Fields declares several.
type NodeSpec struct {
	Name      string      `yaml:"name"`
	Type      string      `yaml:"type"`
	Secondary []string    `yaml:"secondary"`
	Version   int         `yaml:"version"`
	URL       []string    `yaml:"url"`
	Accepts   []string    `yaml:"accepts"`
	Fields    []FieldSpec `yaml:"fields"`
	Root      *bool       `yaml:"root"`
}

// FieldSpec declares one URL field.
type FieldSpec struct {
	Name    string   `yaml:"name"`
	URL     []string `yaml:"url"`
	Accepts []string `yaml:"accepts"`
}

// RouteSpec connects "Node.field" endpoints.
type RouteSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// nodeTypes maps manifest type names to node types and secondary types.
var nodeTypes = map[string]struct {
	primary   domain.NodeType
	secondary []domain.NodeType
}{
	"":            {primary: domain.NodeTypeUnknown},
	"group":       {primary: domain.NodeTypeUnknown},
	"texture":     {primary: domain.NodeTypeTexture},
	"movie":       {primary: domain.NodeTypeTexture, secondary: []domain.NodeType{domain.NodeTypeAudio, domain.NodeTypeTimeDependent}},
	"script":      {primary: domain.NodeTypeScript},
	"audio":       {primary: domain.NodeTypeAudio},
	"shader":      {primary: domain.NodeTypeShader},
	"inline":      {primary: domain.NodeTypeInline},
	"proto":       {primary: domain.NodeTypeProto},
	"externproto": {primary: domain.NodeTypeProto},
}

var secondaryTypes = map[string]domain.NodeType{
	"texture":        domain.NodeTypeTexture,
	"audio":          domain.NodeTypeAudio,
	"time-dependent": domain.NodeTypeTimeDependent,
	"shader":         domain.NodeTypeShader,
}

// defaultAccepts is used for fields that declare no accepted types.
var defaultAccepts = map[domain.NodeType][]string{
	domain.NodeTypeTexture: {"image/", "video/"},
	domain.NodeTypeAudio:   {"audio/"},
	domain.NodeTypeInline:  {"model/", "x-world/", "application/x3d+xml"},
	domain.NodeTypeProto:   {"model/", "x-world/", "application/x3d+xml"},
}

// Parse reads a manifest from r. Relative URLs are resolved against
// baseURL. An empty stream yields an empty scene.
func Parse(r io.Reader, baseURL string, opts ...scene.NodeOption) (*scene.Scene, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return Build(&doc, baseURL, opts...)
}

// Build creates the scene a document describes.
func Build(doc *Document, baseURL string, opts ...scene.NodeOption) (*scene.Scene, error) {
	s := scene.New(baseURL)
	if doc == nil {
		return s, nil
	}

	for i, spec := range doc.Nodes {
		node, err := buildNode(spec, baseURL, opts)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := s.Node(node.NodeName()); dup {
			return nil, fmt.Errorf("node %d: duplicate name %q: %w", i, node.NodeName(), domain.ErrInvalidInput)
		}
		if spec.Root == nil || *spec.Root {
			s.AddRoot(node)
		} else {
			s.Add(node)
		}
	}

	routes := make([]domain.Route, 0, len(doc.Routes))
	for i, rs := range doc.Routes {
		route, err := buildRoute(rs, s)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		routes = append(routes, route)
	}
	if err := s.AddRoutes(routes); err != nil {
		return nil, err
	}
	return s, nil
}

func buildNode(spec NodeSpec, baseURL string, opts []scene.NodeOption) (*scene.Node, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("missing name: %w", domain.ErrInvalidInput)
	}
	kind, ok := nodeTypes[strings.ToLower(strings.TrimSpace(spec.Type))]
	if !ok {
		return nil, fmt.Errorf("%s: unknown type %q: %w", spec.Name, spec.Type, domain.ErrInvalidInput)
	}

	secondary := append([]domain.NodeType(nil), kind.secondary...)
	for _, name := range spec.Secondary {
		t, ok := secondaryTypes[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%s: unknown secondary type %q: %w", spec.Name, name, domain.ErrInvalidInput)
		}
		secondary = append(secondary, t)
	}

	nodeOpts := append([]scene.NodeOption(nil), opts...)
	if len(secondary) > 0 {
		nodeOpts = append(nodeOpts, scene.WithSecondaryTypes(secondary...))
	}
	if spec.Version != 0 {
		v := domain.ScriptSpecVersion(spec.Version)
		if v != domain.SpecVRML97 && v != domain.SpecX3D {
			return nil, fmt.Errorf("%s: unknown version %d: %w", spec.Name, spec.Version, domain.ErrInvalidInput)
		}
		nodeOpts = append(nodeOpts, scene.WithSpecVersion(v))
	}
	node := scene.NewNode(spec.Name, kind.primary, nodeOpts...)

	fields := spec.Fields
	if len(spec.URL) > 0 || len(spec.Accepts) > 0 {
		fields = append([]FieldSpec{{Name: "url", URL: spec.URL, Accepts: spec.Accepts}}, fields...)
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%s: field without name: %w", spec.Name, domain.ErrInvalidInput)
		}
		accepts := f.Accepts
		if len(accepts) == 0 {
			accepts = defaultAccepts[kind.primary]
		}
		node.AddField(f.Name, ResolveURLs(baseURL, f.URL), accepts...)
	}
	return node, nil
}

func buildRoute(rs RouteSpec, s *scene.Scene) (domain.Route, error) {
	fromNode, fromField, err := splitEndpoint(rs.From)
	if err != nil {
		return domain.Route{}, err
	}
	toNode, toField, err := splitEndpoint(rs.To)
	if err != nil {
		return domain.Route{}, err
	}
	for _, name := range []string{fromNode, toNode} {
		if _, ok := s.Node(name); !ok {
			return domain.Route{}, fmt.Errorf("unknown node %q: %w", name, domain.ErrNotFound)
		}
	}
	return domain.Route{FromNode: fromNode, FromField: fromField, ToNode: toNode, ToField: toField}, nil
}

func splitEndpoint(ep string) (string, string, error) {
	node, field, ok := strings.Cut(strings.TrimSpace(ep), ".")
	if !ok || node == "" || field == "" {
		return "", "", fmt.Errorf("endpoint %q is not Node.field: %w", ep, domain.ErrInvalidInput)
	}
	return node, field, nil
}

// ResolveURLs resolves each relative URL against baseURL. Absolute URLs
// and inline scripts are returned unchanged.
func ResolveURLs(baseURL string, urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, resolveURL(baseURL, u))
	}
	return out
}

func resolveURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if baseURL == "" || ref == "" || domain.IsInlineScriptURL(ref) {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
