package scene

import (
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Scene implements the interfaces.
var (
	_ driven.WorldDocument  = (*Scene)(nil)
	_ driven.ExecutionSpace = (*Scene)(nil)
)

// Scene groups nodes, root children and routes of one document.
type Scene struct {
	url string

	mu     sync.RWMutex
	nodes  []*Node
	byName map[string]*Node
	protos []driven.ExternalNode
	single []driven.ExternalNode
	multi  []driven.ExternalNode
	roots  []any
	routes []domain.Route
}

// New creates an empty scene loaded from url.
func New(url string) *Scene {
	return &Scene{
		url:    url,
		byName: make(map[string]*Node),
	}
}

// URL returns the URL the scene was loaded from.
func (s *Scene) URL() string {
	return s.url
}

// Add registers node with the scene. Proto declarations, single-URL and
// multi-URL nodes are listed separately so they can be queued in that order.
func (s *Scene) Add(node *Node) {
	if node == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, node)
	if node.NodeName() != "" {
		s.byName[node.NodeName()] = node
	}
	switch {
	case node.PrimaryType() == domain.NodeTypeProto:
		s.protos = append(s.protos, node)
	case len(node.URLFields()) > 1:
		s.multi = append(s.multi, node)
	default:
		s.single = append(s.single, node)
	}
}

// AddRoot adds node to the scene and to its root children.
func (s *Scene) AddRoot(node *Node) {
	s.Add(node)
	s.mu.Lock()
	s.roots = append(s.roots, node)
	s.mu.Unlock()
}

// Node returns the named node.
func (s *Scene) Node(name string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byName[name]
	return n, ok
}

// Nodes returns every node in the order added.
func (s *Scene) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Node(nil), s.nodes...)
}

// ExternProtos returns proto declarations whose body lives at a URL.
func (s *Scene) ExternProtos() []driven.ExternalNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]driven.ExternalNode(nil), s.protos...)
}

// SingleURLNodes returns nodes with one URL field.
func (s *Scene) SingleURLNodes() []driven.ExternalNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]driven.ExternalNode(nil), s.single...)
}

// MultiURLNodes returns nodes with several URL fields.
func (s *Scene) MultiURLNodes() []driven.ExternalNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]driven.ExternalNode(nil), s.multi...)
}

// RootChildren returns the top-level nodes.
func (s *Scene) RootChildren() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]any(nil), s.roots...)
}

// Routes returns the scene's routes.
func (s *Scene) Routes() []domain.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Route(nil), s.routes...)
}

// AddRoutes merges routes into the scene.
func (s *Scene) AddRoutes(routes []domain.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, routes...)
	return nil
}

// Settled returns true when every field of every node is terminal.
func (s *Scene) Settled() bool {
	for _, n := range s.Nodes() {
		if !n.Settled() {
			return false
		}
	}
	return true
}
