package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// --- Scene graph mocks ---

// mockNode implements driven.ExternalNode with a single URL field unless
// more are added through setURLs.
type mockNode struct {
	name      string
	primary   domain.NodeType
	secondary []domain.NodeType

	mu        sync.Mutex
	fields    []int
	urls      map[int][]string
	epochs    map[int]uint64
	states    map[int]domain.LoadState
	loadedURI map[int]string
	content   map[int]any
	listeners []driven.URLListener
	accepts   func(contentType string) bool
	setErr    error
	sets      int
}

func newMockNode(name string, primary domain.NodeType, urls ...string) *mockNode {
	return &mockNode{
		name:      name,
		primary:   primary,
		fields:    []int{0},
		urls:      map[int][]string{0: urls},
		epochs:    map[int]uint64{},
		states:    map[int]domain.LoadState{},
		loadedURI: map[int]string{},
		content:   map[int]any{},
	}
}

func (n *mockNode) NodeName() string                  { return n.name }
func (n *mockNode) PrimaryType() domain.NodeType      { return n.primary }
func (n *mockNode) SecondaryTypes() []domain.NodeType { return n.secondary }

func (n *mockNode) URLFields() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int(nil), n.fields...)
}

func (n *mockNode) URLs(field int) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urls[field]...)
}

func (n *mockNode) URLEpoch(field int) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.epochs[field]
}

func (n *mockNode) LoadState(field int) domain.LoadState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.states[field]
}

func (n *mockNode) SetLoadState(field int, state domain.LoadState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states[field] = state
}

func (n *mockNode) SetLoadedURI(field int, uri string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loadedURI[field] = uri
}

func (n *mockNode) CheckValidContentType(_ int, contentType string) bool {
	if n.accepts == nil {
		return true
	}
	return n.accepts(contentType)
}

func (n *mockNode) SetContent(field int, _ string, content any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.setErr != nil {
		return n.setErr
	}
	n.sets++
	n.content[field] = content
	return nil
}

func (n *mockNode) AddURLListener(l driven.URLListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, existing := range n.listeners {
		if existing == l {
			return
		}
	}
	n.listeners = append(n.listeners, l)
}

// setURLs replaces a field's URLs and bumps its epoch.
func (n *mockNode) setURLs(field int, urls ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.urls[field]; !ok {
		n.fields = append(n.fields, field)
	}
	n.urls[field] = urls
	n.epochs[field]++
}

func (n *mockNode) contentOf(field int) any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.content[field]
}

func (n *mockNode) loadedFrom(field int) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loadedURI[field]
}

func (n *mockNode) setCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sets
}

func (n *mockNode) listenerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// mockScriptNode is a script node declaring its own version and listener.
type mockScriptNode struct {
	*mockNode
	version domain.ScriptSpecVersion
	status  driven.ScriptStatusListener
}

func (n *mockScriptNode) SpecVersion() domain.ScriptSpecVersion       { return n.version }
func (n *mockScriptNode) StatusListener() driven.ScriptStatusListener { return n.status }

// mockScene implements driven.Scene.
type mockScene struct {
	protos []driven.ExternalNode
	single []driven.ExternalNode
	multi  []driven.ExternalNode
}

func (s *mockScene) ExternProtos() []driven.ExternalNode   { return s.protos }
func (s *mockScene) SingleURLNodes() []driven.ExternalNode { return s.single }
func (s *mockScene) MultiURLNodes() []driven.ExternalNode  { return s.multi }

// --- Transport mocks ---

// mockResource is what mockLoader serves for one URL.
type mockResource struct {
	contentType string
	content     any
	body        []byte
	err         error
	// wait blocks Open until closed or the context is cancelled.
	wait chan struct{}
}

// mockLoader implements driven.ResourceLoader from a URL table.
type mockLoader struct {
	mu        sync.Mutex
	resources map[string]*mockResource
	opens     map[string]int
	conns     []*mockConn
	started   chan string
}

func newMockLoader() *mockLoader {
	return &mockLoader{
		resources: make(map[string]*mockResource),
		opens:     make(map[string]int),
	}
}

func (l *mockLoader) serve(url, contentType string, content any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := &mockResource{contentType: contentType, content: content}
	if b, ok := content.([]byte); ok {
		res.body = b
	}
	if s, ok := content.(string); ok {
		res.body = []byte(s)
	}
	l.resources[url] = res
}

func (l *mockLoader) fail(url string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resources[url] = &mockResource{err: err}
}

// block makes Open for url wait until the returned channel is closed.
func (l *mockLoader) block(url, contentType string, content any) chan struct{} {
	wait := make(chan struct{})
	l.serve(url, contentType, content)
	l.mu.Lock()
	l.resources[url].wait = wait
	l.mu.Unlock()
	return wait
}

func (l *mockLoader) Open(ctx context.Context, url string) (driven.Connection, error) {
	l.mu.Lock()
	l.opens[url]++
	res, ok := l.resources[url]
	started := l.started
	l.mu.Unlock()

	if started != nil {
		started <- url
	}
	if !ok {
		return nil, errors.New("404 not found")
	}
	if res.wait != nil {
		select {
		case <-res.wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if res.err != nil {
		return nil, res.err
	}
	conn := &mockConn{url: url, contentType: res.contentType, content: res.content, body: res.body}
	l.mu.Lock()
	l.conns = append(l.conns, conn)
	l.mu.Unlock()
	return conn, nil
}

func (l *mockLoader) openCount(url string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens[url]
}

func (l *mockLoader) allClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.conns {
		if !c.closed.Load() {
			return false
		}
	}
	return true
}

// mockConn implements driven.Connection.
type mockConn struct {
	url         string
	contentType string
	content     any
	body        []byte
	closed      atomic.Bool
}

func (c *mockConn) URL() string         { return c.url }
func (c *mockConn) ContentType() string { return c.contentType }
func (c *mockConn) Body() io.Reader     { return bytes.NewReader(c.body) }

func (c *mockConn) Content(_ context.Context) (any, error) {
	return c.content, nil
}

func (c *mockConn) Close() error {
	c.closed.Store(true)
	return nil
}

// mockCache implements driven.FileCache.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]*domain.CacheDetails
	stores  int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*domain.CacheDetails)}
}

func (c *mockCache) CheckForFile(url string) (*domain.CacheDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cd, ok := c.entries[url]
	return cd, ok
}

func (c *mockCache) CacheFile(url, contentType string, content any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores++
	c.entries[url] = &domain.CacheDetails{URL: url, ContentType: contentType, Content: content}
}

func (c *mockCache) Evict(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

func (c *mockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// mockProgress implements driven.ProgressListener.
type mockProgress struct {
	mu      sync.Mutex
	started []string
	ended   []string
}

func (p *mockProgress) DownloadStarted(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, url)
}

func (p *mockProgress) DownloadEnded(url string, _ error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = append(p.ended, url)
}

// --- Reporting mocks ---

type report struct {
	msg string
	err error
}

// mockReporter implements driven.ErrorReporter and records every report.
type mockReporter struct {
	mu       sync.Mutex
	warnings []report
	errors   []report
	messages []string
}

func (r *mockReporter) PartialReport(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *mockReporter) MessageReport(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *mockReporter) WarningReport(msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, report{msg: msg, err: err})
}

func (r *mockReporter) ErrorReport(msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, report{msg: msg, err: err})
}

func (r *mockReporter) FatalErrorReport(msg string, err error) {
	r.ErrorReport(msg, err)
}

func (r *mockReporter) warningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

func (r *mockReporter) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// --- Consumers ---

// mockConsumers implements driven.Consumers over a fixed list.
type mockConsumers struct {
	mu   sync.Mutex
	list []*driven.LoadDetails
}

func newConsumers(details ...*driven.LoadDetails) *mockConsumers {
	return &mockConsumers{list: details}
}

func (c *mockConsumers) List() []*driven.LoadDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*driven.LoadDetails(nil), c.list...)
}

func (c *mockConsumers) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list)
}

func (c *mockConsumers) Apply(d *driven.LoadDetails, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, x := range c.list {
		if x == d {
			fn()
			return true
		}
	}
	return false
}

func detailsFor(node driven.ExternalNode) *driven.LoadDetails {
	return &driven.LoadDetails{ID: node.NodeName(), Node: node, Epoch: node.URLEpoch(0)}
}

// --- Script mocks ---

// mockEngine implements driven.ScriptEngine.
type mockEngine struct {
	prefix string
	err    error
}

func (e *mockEngine) Build(_ context.Context, _ string, source any) (any, error) {
	if e.err != nil {
		return nil, e.err
	}
	if s, ok := source.(string); ok {
		return e.prefix + s, nil
	}
	return source, nil
}

// mockClassLoader implements driven.ClassLoader.
type mockClassLoader struct {
	classes map[string]any
}

func (l *mockClassLoader) LoadClass(_ context.Context, url string) (any, error) {
	if c, ok := l.classes[url]; ok {
		return c, nil
	}
	return nil, errors.New("class missing")
}

// mockScriptStatus implements driven.ScriptStatusListener.
type mockScriptStatus struct {
	mu     sync.Mutex
	loaded []string
	failed []error
}

func (s *mockScriptStatus) ScriptLoaded(_ driven.ExternalNode, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = append(s.loaded, url)
}

func (s *mockScriptStatus) ScriptFailed(_ driven.ExternalNode, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, err)
}

// --- World mocks ---

// mockDocument implements driven.WorldDocument.
type mockDocument struct {
	mockScene
	source   string
	children []any
	routes   []domain.Route
}

func (d *mockDocument) RootChildren() []any    { return d.children }
func (d *mockDocument) Routes() []domain.Route { return d.routes }

// mockWorldLoader implements driven.WorldLoader. A body of "bad", or of
// reject when set, fails to parse.
type mockWorldLoader struct {
	rendererType string
	reject       string
	loads        atomic.Int32
}

func (l *mockWorldLoader) RendererType() string { return l.rendererType }

func (l *mockWorldLoader) Load(_ context.Context, r io.Reader, baseURL, _ string) (driven.WorldDocument, error) {
	l.loads.Add(1)
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if string(body) == "bad" || (l.reject != "" && string(body) == l.reject) {
		return nil, errors.New("parse error")
	}
	return &mockDocument{
		source:   baseURL,
		children: []any{string(body)},
		routes:   []domain.Route{{FromNode: "A", FromField: "out", ToNode: "B", ToField: "in"}},
	}, nil
}

// mockBrowser implements driven.Browser.
type mockBrowser struct {
	mu       sync.Mutex
	replaced []string
	err      error
}

func (b *mockBrowser) ReplaceWorld(_ driven.WorldDocument, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.replaced = append(b.replaced, url)
	return nil
}

// mockTarget implements driven.ChildrenTarget and driven.ExecutionSpace.
type mockTarget struct {
	mu       sync.Mutex
	children []any
	routes   []domain.Route
	err      error
}

func (t *mockTarget) NodeName() string { return "Group" }

func (t *mockTarget) AddChildren(_ int, children []any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.children = append(t.children, children...)
	return nil
}

func (t *mockTarget) AddRoutes(routes []domain.Route) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, routes...)
	return nil
}

// mockSceneQueuer implements driven.SceneQueuer.
type mockSceneQueuer struct {
	mu     sync.Mutex
	scenes []driven.Scene
}

func (q *mockSceneQueuer) QueueSceneLoad(scene driven.Scene) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.scenes = append(q.scenes, scene)
}

func (q *mockSceneQueuer) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.scenes)
}

// --- Handler mocks ---

// funcHandler implements driven.LoadRequestHandler with a function.
type funcHandler struct {
	kind string
	fn   func(ctx context.Context, urls []string, consumers driven.Consumers) domain.LoadOutcome
}

func (h *funcHandler) Kind() string { return h.kind }

func (h *funcHandler) ProcessLoadRequest(
	ctx context.Context,
	_ driven.ErrorReporter,
	urls []string,
	consumers driven.Consumers,
) domain.LoadOutcome {
	return h.fn(ctx, urls, consumers)
}

// --- Frame host mock ---

// mockFrameHost implements driven.FrameHost.
type mockFrameHost struct {
	mu        sync.Mutex
	loading   bool
	intervals []time.Duration
}

func (h *mockFrameHost) SetMinimumFrameInterval(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.intervals = append(h.intervals, d)
}

func (h *mockFrameHost) IsWorldLoading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *mockFrameHost) last() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.intervals) == 0 {
		return -1
	}
	return h.intervals[len(h.intervals)-1]
}

// fixedCounter implements InProgressCounter.
type fixedCounter struct {
	n atomic.Int32
}

func (c *fixedCounter) NumberInProgress() int { return int(c.n.Load()) }
