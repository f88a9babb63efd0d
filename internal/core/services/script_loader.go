package services

import (
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
)

// Ensure ScriptLoader implements the interface.
var _ driving.ScriptManager = (*ScriptLoader)(nil)

// ScriptLoader loads the content of script nodes. Scripts are served
// before every other sort class.
type ScriptLoader struct {
	nodeManager
	scripts *ScriptHandler

	version domain.ScriptSpecVersion
	status  driven.ScriptStatusListener
}

// ScriptLoaderOption configures a ScriptLoader.
type ScriptLoaderOption func(*ScriptLoader)

// WithSpecVersion sets the version used for nodes that do not declare one.
func WithSpecVersion(version domain.ScriptSpecVersion) ScriptLoaderOption {
	return func(l *ScriptLoader) {
		l.version = version
	}
}

// WithScriptStatus sets the listener used for nodes that do not provide one.
func WithScriptStatus(status driven.ScriptStatusListener) ScriptLoaderOption {
	return func(l *ScriptLoader) {
		l.status = status
	}
}

// NewScriptLoader creates a script manager sharing pool.
func NewScriptLoader(pool *LoaderPool, handler *ScriptHandler, opts ...ScriptLoaderOption) *ScriptLoader {
	l := &ScriptLoader{
		scripts: handler,
		version: domain.SpecX3D,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.nodeManager = nodeManager{
		pool:    pool,
		handler: handler,
		accept: func(node driven.ExternalNode) bool {
			return node.PrimaryType() == domain.NodeTypeScript
		},
		classify: func(driven.ExternalNode) domain.SortClass {
			return domain.SortScripts
		},
		decorate: l.decorate,
		listener: l,
		regs:     make(map[fieldRef]registration),
	}
	return l
}

// decorate attaches the script version and status listener to details.
func (l *ScriptLoader) decorate(d *driven.LoadDetails) {
	sd := &driven.ScriptDetails{
		SpecVersion: l.version,
		Status:      l.status,
	}
	if sn, ok := d.Node.(driven.ScriptNode); ok {
		if v := sn.SpecVersion(); v != 0 {
			sd.SpecVersion = v
		}
		if s := sn.StatusListener(); s != nil {
			sd.Status = s
		}
	}
	d.Script = sd
}

// RegisterEngine maps a specification version and MIME type to an engine.
func (l *ScriptLoader) RegisterEngine(version domain.ScriptSpecVersion, contentType string, engine driven.ScriptEngine) {
	l.scripts.Engines().Register(version, contentType, engine)
}

// QueueSceneLoad queues every script node of scene.
func (l *ScriptLoader) QueueSceneLoad(scene driven.Scene) {
	l.queueScene(scene)
}

// StopSceneLoad withdraws every script registration made for scene.
func (l *ScriptLoader) StopSceneLoad(scene driven.Scene) {
	l.stopScene(scene)
}

// QueueNodesLoad queues an explicit set of script nodes.
func (l *ScriptLoader) QueueNodesLoad(nodes []driven.ExternalNode) {
	l.queueNodes(nodes)
}

// URLChanged re-queues a script whose URL was replaced at runtime.
func (l *ScriptLoader) URLChanged(node driven.ExternalNode, field int) {
	l.urlChanged(node, field)
}

// Clear drops all pending work, aborts in-flight loads and restarts the pool.
func (l *ScriptLoader) Clear() {
	l.clear()
}

// NumberInProgress returns outstanding script requests.
func (l *ScriptLoader) NumberInProgress() int {
	return l.numberInProgress()
}
