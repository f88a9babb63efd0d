package scene

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Node implements the interfaces.
var (
	_ driven.ExternalNode   = (*Node)(nil)
	_ driven.ScriptNode     = (*Node)(nil)
	_ driven.ChildrenTarget = (*Node)(nil)
)

// field is one URL field of a node.
type field struct {
	name    string
	urls    []string
	accepts []string
	epoch   uint64
	state   domain.LoadState

	loadedURI   string
	contentType string
	content     any
}

// Node is a scene-graph node with URL fields.
type Node struct {
	name      string
	primary   domain.NodeType
	secondary []domain.NodeType
	version   domain.ScriptSpecVersion
	status    driven.ScriptStatusListener
	observer  func(node *Node, field int, state domain.LoadState)

	mu        sync.RWMutex
	fields    []*field
	listeners []driven.URLListener
	children  map[int][]any
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// WithSecondaryTypes sets additional abstract types.
func WithSecondaryTypes(types ...domain.NodeType) NodeOption {
	return func(n *Node) {
		n.secondary = append(n.secondary, types...)
	}
}

// WithSpecVersion sets the specification version a script node was declared under.
func WithSpecVersion(version domain.ScriptSpecVersion) NodeOption {
	return func(n *Node) {
		n.version = version
	}
}

// WithStatusListener sets the listener told when a script loads or fails.
func WithStatusListener(l driven.ScriptStatusListener) NodeOption {
	return func(n *Node) {
		n.status = l
	}
}

// WithStateObserver calls fn after every load state change.
func WithStateObserver(fn func(node *Node, field int, state domain.LoadState)) NodeOption {
	return func(n *Node) {
		n.observer = fn
	}
}

// NewNode creates a node with no fields.
func NewNode(name string, primary domain.NodeType, opts ...NodeOption) *Node {
	n := &Node{
		name:     name,
		primary:  primary,
		children: make(map[int][]any),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// AddField adds a URL field and returns its index. accepts lists the MIME
// types the field takes; an entry ending in "/" matches a whole family
// such as "image/". An empty list accepts anything.
func (n *Node) AddField(name string, urls []string, accepts ...string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fields = append(n.fields, &field{
		name:    name,
		urls:    append([]string(nil), urls...),
		accepts: normaliseAccepts(accepts),
	})
	return len(n.fields) - 1
}

func normaliseAccepts(accepts []string) []string {
	out := make([]string, 0, len(accepts))
	for _, a := range accepts {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// NodeName returns the node name.
func (n *Node) NodeName() string {
	return n.name
}

// PrimaryType returns the node's main abstract type.
func (n *Node) PrimaryType() domain.NodeType {
	return n.primary
}

// SecondaryTypes returns additional abstract types.
func (n *Node) SecondaryTypes() []domain.NodeType {
	return n.secondary
}

// SpecVersion returns the declared specification version, or 0.
func (n *Node) SpecVersion() domain.ScriptSpecVersion {
	return n.version
}

// StatusListener returns the script status listener, or nil.
func (n *Node) StatusListener() driven.ScriptStatusListener {
	return n.status
}

// URLFields returns the indexes of every field.
func (n *Node) URLFields() []int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	idx := make([]int, len(n.fields))
	for i := range n.fields {
		idx[i] = i
	}
	return idx
}

// FieldIndex returns the index of the named field.
func (n *Node) FieldIndex(name string) (int, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for i, f := range n.fields {
		if f.name == name {
			return i, true
		}
	}
	return -1, false
}

// FieldName returns the name of a field, or "".
func (n *Node) FieldName(i int) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if f := n.field(i); f != nil {
		return f.name
	}
	return ""
}

// field returns field i or nil. Callers hold mu.
func (n *Node) field(i int) *field {
	if i < 0 || i >= len(n.fields) {
		return nil
	}
	return n.fields[i]
}

// URLs returns a copy of a field's candidate URLs.
func (n *Node) URLs(i int) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if f := n.field(i); f != nil {
		return append([]string(nil), f.urls...)
	}
	return nil
}

// URLEpoch returns the field's URL change counter.
func (n *Node) URLEpoch(i int) uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if f := n.field(i); f != nil {
		return f.epoch
	}
	return 0
}

// SetURL replaces a field's URLs, bumps its epoch and notifies URL
// listeners. Listeners run on the calling goroutine.
func (n *Node) SetURL(i int, urls []string) error {
	n.mu.Lock()
	f := n.field(i)
	if f == nil {
		n.mu.Unlock()
		return fmt.Errorf("%s field %d: %w", n.name, i, domain.ErrInvalidInput)
	}
	f.urls = append([]string(nil), urls...)
	f.epoch++
	listeners := append([]driven.URLListener(nil), n.listeners...)
	n.mu.Unlock()

	for _, l := range listeners {
		l.URLChanged(n, i)
	}
	return nil
}

// LoadState returns a field's load state.
func (n *Node) LoadState(i int) domain.LoadState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if f := n.field(i); f != nil {
		return f.state
	}
	return domain.NotLoaded
}

// SetLoadState updates a field's load state.
func (n *Node) SetLoadState(i int, state domain.LoadState) {
	n.mu.Lock()
	f := n.field(i)
	if f == nil {
		n.mu.Unlock()
		return
	}
	changed := f.state != state
	f.state = state
	n.mu.Unlock()

	if changed && n.observer != nil {
		n.observer(n, i, state)
	}
}

// SetLoadedURI records which URL produced the field's content.
func (n *Node) SetLoadedURI(i int, uri string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if f := n.field(i); f != nil {
		f.loadedURI = uri
	}
}

// LoadedURI returns the URL that produced the field's content.
func (n *Node) LoadedURI(i int) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if f := n.field(i); f != nil {
		return f.loadedURI
	}
	return ""
}

// CheckValidContentType returns true if the field accepts contentType.
func (n *Node) CheckValidContentType(i int, contentType string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	f := n.field(i)
	if f == nil {
		return false
	}
	if len(f.accepts) == 0 {
		return true
	}
	ct := domain.BaseContentType(contentType)
	for _, a := range f.accepts {
		if a == ct || (strings.HasSuffix(a, "/") && strings.HasPrefix(ct, a)) {
			return true
		}
	}
	return false
}

// SetContent installs decoded content into a field.
func (n *Node) SetContent(i int, contentType string, content any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	f := n.field(i)
	if f == nil {
		return fmt.Errorf("%s field %d: %w", n.name, i, domain.ErrInvalidInput)
	}
	f.contentType = contentType
	f.content = content
	return nil
}

// Content returns a field's installed content and its MIME type.
func (n *Node) Content(i int) (string, any) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if f := n.field(i); f != nil {
		return f.contentType, f.content
	}
	return "", nil
}

// AddURLListener registers l. Registering the same listener twice has no
// additional effect.
func (n *Node) AddURLListener(l driven.URLListener) {
	if l == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, existing := range n.listeners {
		if existing == l {
			return
		}
	}
	n.listeners = append(n.listeners, l)
}

// AddChildren appends transplanted children to a children field.
func (n *Node) AddChildren(i int, children []any) error {
	if i < 0 {
		return fmt.Errorf("%s children field %d: %w", n.name, i, domain.ErrInvalidInput)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children[i] = append(n.children[i], children...)
	return nil
}

// Children returns the children added to a children field.
func (n *Node) Children(i int) []any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]any(nil), n.children[i]...)
}

// Settled returns true when every field is in a terminal load state.
func (n *Node) Settled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, f := range n.fields {
		if !f.state.IsTerminal() {
			return false
		}
	}
	return true
}
