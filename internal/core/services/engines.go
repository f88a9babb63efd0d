package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Script content types.
const (
	ContentTypeECMAScript  = "application/ecmascript"
	ContentTypeJavaScript  = "application/javascript"
	ContentTypeVRMLScript  = "application/x-vrmlscript"
	ContentTypeScriptClass = "application/x-script-class"
)

type engineKey struct {
	version     domain.ScriptSpecVersion
	contentType string
}

// EngineRegistry maps a specification version and MIME type to the
// scripting engine that builds content for it.
type EngineRegistry struct {
	mu      sync.RWMutex
	engines map[engineKey]driven.ScriptEngine
}

// NewEngineRegistry creates an empty registry.
func NewEngineRegistry() *EngineRegistry {
	return &EngineRegistry{
		engines: make(map[engineKey]driven.ScriptEngine),
	}
}

// Register adds or replaces the engine for a version and MIME type.
// A nil engine removes the registration.
func (r *EngineRegistry) Register(version domain.ScriptSpecVersion, contentType string, engine driven.ScriptEngine) {
	key := engineKey{version: version, contentType: domain.BaseContentType(contentType)}
	r.mu.Lock()
	defer r.mu.Unlock()
	if engine == nil {
		delete(r.engines, key)
		return
	}
	r.engines[key] = engine
}

// Lookup returns the engine for a version and MIME type.
func (r *EngineRegistry) Lookup(version domain.ScriptSpecVersion, contentType string) (driven.ScriptEngine, error) {
	key := engineKey{version: version, contentType: domain.BaseContentType(contentType)}
	r.mu.RLock()
	defer r.mu.RUnlock()
	engine, ok := r.engines[key]
	if !ok {
		return nil, fmt.Errorf("spec version %d, %s: %w", version, key.contentType, domain.ErrNoEngine)
	}
	return engine, nil
}

// Len returns the number of registered engines.
func (r *EngineRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}
