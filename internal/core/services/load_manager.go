package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// Ensure ContentLoadManager implements the interface.
var _ driving.LoadManager = (*ContentLoadManager)(nil)

// fieldRef identifies one URL field of one node.
type fieldRef struct {
	node  driven.ExternalNode
	field int
}

// registration is a queued consumer and the request key it was queued under.
type registration struct {
	key     domain.URLSetKey
	details *driven.LoadDetails
}

// nodeManager walks scenes and keeps one registration per node field.
// The content and script managers differ only in which nodes they accept
// and how they build details.
type nodeManager struct {
	pool    *LoaderPool
	handler driven.LoadRequestHandler

	accept   func(node driven.ExternalNode) bool
	classify func(node driven.ExternalNode) domain.SortClass
	decorate func(d *driven.LoadDetails)
	listener driven.URLListener

	mu   sync.Mutex
	regs map[fieldRef]registration
}

func (m *nodeManager) walk(scene driven.Scene, fn func(node driven.ExternalNode)) {
	if scene == nil {
		return
	}
	for _, group := range [][]driven.ExternalNode{
		scene.ExternProtos(),
		scene.SingleURLNodes(),
		scene.MultiURLNodes(),
	} {
		for _, node := range group {
			if node != nil && m.accept(node) {
				fn(node)
			}
		}
	}
}

func (m *nodeManager) queueScene(scene driven.Scene) {
	m.pool.EnsureRunning()
	m.walk(scene, m.queueNode)
}

func (m *nodeManager) queueNodes(nodes []driven.ExternalNode) {
	m.pool.EnsureRunning()
	for _, node := range nodes {
		if node != nil && m.accept(node) {
			m.queueNode(node)
		}
	}
}

func (m *nodeManager) queueNode(node driven.ExternalNode) {
	for _, field := range node.URLFields() {
		m.queueField(node, field)
	}
}

// queueField registers one field. Fields already loading or loaded are
// left alone; a field without URLs fails immediately. The manager listens
// for URL changes from the moment a field is queued, so a change made
// while the first load is in flight restarts it.
func (m *nodeManager) queueField(node driven.ExternalNode, field int) {
	if node.LoadState(field) != domain.NotLoaded {
		return
	}
	if m.listener != nil {
		node.AddURLListener(m.listener)
	}
	urls := node.URLs(field)
	if len(domain.CleanURLs(urls)) == 0 {
		logger.Debug("%s: %s field %d has no urls", m.handler.Kind(), node.NodeName(), field)
		node.SetLoadState(field, domain.LoadFailed)
		return
	}

	details := &driven.LoadDetails{
		ID:       uuid.NewString(),
		Node:     node,
		Field:    field,
		Epoch:    node.URLEpoch(field),
		Listener: m.listener,
	}
	if m.decorate != nil {
		m.decorate(details)
	}
	class := m.classify(node)
	key := domain.NewURLSetKey(m.handler.Kind(), urls)

	m.mu.Lock()
	m.regs[fieldRef{node: node, field: field}] = registration{key: key, details: details}
	m.mu.Unlock()

	if m.pool.Queue().Add(class, urls, m.handler, details) {
		logger.Debug("%s: coalesced %s field %d into %s", m.handler.Kind(), node.NodeName(), field, urls[0])
	}
}

// stopScene withdraws every registration made for the scene's nodes.
func (m *nodeManager) stopScene(scene driven.Scene) {
	m.walk(scene, func(node driven.ExternalNode) {
		for _, field := range node.URLFields() {
			m.unregister(node, field)
		}
	})
}

// unregister removes one field's registration from the queue.
func (m *nodeManager) unregister(node driven.ExternalNode, field int) {
	ref := fieldRef{node: node, field: field}
	m.mu.Lock()
	reg, ok := m.regs[ref]
	delete(m.regs, ref)
	m.mu.Unlock()
	if ok {
		m.pool.Queue().Remove(reg.key, reg.details)
	}
}

// urlChanged drops the stale registration and queues the field again.
func (m *nodeManager) urlChanged(node driven.ExternalNode, field int) {
	if node == nil || !m.accept(node) {
		return
	}
	m.unregister(node, field)
	node.SetLoadState(field, domain.NotLoaded)
	m.pool.EnsureRunning()
	m.queueField(node, field)
}

// clear aborts everything in the shared pool and restarts it.
func (m *nodeManager) clear() {
	m.mu.Lock()
	m.regs = make(map[fieldRef]registration)
	m.mu.Unlock()
	m.pool.Clear()
	m.pool.Restart()
}

func (m *nodeManager) numberInProgress() int {
	return m.pool.Queue().CountKind(m.handler.Kind())
}

// ContentLoadManager loads textures, inlines, audio, shaders and
// externprotos. Script nodes are left to the ScriptLoader.
type ContentLoadManager struct {
	nodeManager
}

// NewContentLoadManager creates a content manager sharing pool. Unless the
// handler already has a scene queuer, inline scenes it installs are queued
// back through the new manager.
func NewContentLoadManager(pool *LoaderPool, handler *ContentHandler) *ContentLoadManager {
	m := &ContentLoadManager{}
	m.nodeManager = nodeManager{
		pool:    pool,
		handler: handler,
		accept: func(node driven.ExternalNode) bool {
			return node.PrimaryType() != domain.NodeTypeScript
		},
		classify: func(node driven.ExternalNode) domain.SortClass {
			return domain.ClassifyNode(node.PrimaryType(), node.SecondaryTypes())
		},
		listener: m,
		regs:     make(map[fieldRef]registration),
	}
	if handler != nil && handler.scenes == nil {
		handler.SetSceneQueuer(m)
	}
	return m
}

// QueueSceneLoad queues externprotos, then single-URL nodes, then multi-URL nodes.
func (m *ContentLoadManager) QueueSceneLoad(scene driven.Scene) {
	m.queueScene(scene)
}

// StopSceneLoad withdraws every registration made for scene.
func (m *ContentLoadManager) StopSceneLoad(scene driven.Scene) {
	m.stopScene(scene)
}

// QueueNodesLoad queues an explicit set of nodes.
func (m *ContentLoadManager) QueueNodesLoad(nodes []driven.ExternalNode) {
	m.queueNodes(nodes)
}

// URLChanged re-queues a field whose URL was replaced at runtime.
func (m *ContentLoadManager) URLChanged(node driven.ExternalNode, field int) {
	m.urlChanged(node, field)
}

// Clear drops all pending work, aborts in-flight loads and restarts the pool.
func (m *ContentLoadManager) Clear() {
	m.clear()
}

// NumberInProgress returns outstanding content requests.
func (m *ContentLoadManager) NumberInProgress() int {
	return m.numberInProgress()
}

// SceneQueuers fans a loaded scene out to several managers.
type SceneQueuers []driven.SceneQueuer

// QueueSceneLoad passes scene to every queuer in order.
func (qs SceneQueuers) QueueSceneLoad(scene driven.Scene) {
	for _, q := range qs {
		q.QueueSceneLoad(scene)
	}
}

// URLListeners fans a URL change out to several listeners.
type URLListeners []driven.URLListener

// URLChanged passes the change to every listener in order.
func (ls URLListeners) URLChanged(node driven.ExternalNode, field int) {
	for _, l := range ls {
		l.URLChanged(node, field)
	}
}
