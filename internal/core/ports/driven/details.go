package driven

import "github.com/custodia-labs/sceneload/internal/core/domain"

// LoadDetails registers one consumer against a load request: a node field
// waiting for the request's content.
type LoadDetails struct {
	// ID uniquely identifies the registration.
	ID string

	// Node is the target node. Nil for world loads that replace the scene.
	Node ExternalNode

	// Field is the URL field index on Node.
	Field int

	// Epoch is Node.URLEpoch(Field) when the registration was made.
	// Content for an older epoch is discarded.
	Epoch uint64

	// Listener is registered on Node when the field is queued and again
	// after content is installed.
	Listener URLListener

	// Script is set for script loads.
	Script *ScriptDetails

	// World is set for world loads.
	World *WorldDetails
}

// Same reports whether two registrations target the same node field.
func (d *LoadDetails) Same(o *LoadDetails) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.World != nil || o.World != nil {
		if d.World == nil || o.World == nil {
			return false
		}
		if d.World.Target == nil && o.World.Target == nil {
			return d.ID == o.ID
		}
		return d.World.Target == o.World.Target && d.World.Field == o.World.Field
	}
	return d.Node == o.Node && d.Field == o.Field
}

// IsCurrent reports whether the node's URL is unchanged since registration.
func (d *LoadDetails) IsCurrent() bool {
	if d.Node == nil {
		return true
	}
	return d.Node.URLEpoch(d.Field) == d.Epoch
}

// State returns the target field's load state, or NotLoaded without a node.
func (d *LoadDetails) State() domain.LoadState {
	if d.Node == nil {
		return domain.NotLoaded
	}
	return d.Node.LoadState(d.Field)
}

// SetState updates the target field's load state if there is a node.
func (d *LoadDetails) SetState(state domain.LoadState) {
	if d.Node != nil {
		d.Node.SetLoadState(d.Field, state)
	}
}

// Name returns a description for log messages.
func (d *LoadDetails) Name() string {
	switch {
	case d.Node != nil:
		return d.Node.NodeName()
	case d.World != nil && d.World.Target != nil:
		return d.World.Target.NodeName()
	default:
		return "world"
	}
}

// ScriptDetails carries script-specific context for a registration.
type ScriptDetails struct {
	// SpecVersion selects the scripting engine.
	SpecVersion domain.ScriptSpecVersion

	// Status is notified when the script loads or fails. Optional.
	Status ScriptStatusListener
}

// WorldDetails carries world-load context for a registration.
type WorldDetails struct {
	// Mode selects replace (loadURL) or create (createVrmlFromUrl).
	Mode domain.WorldMode

	// RendererType selects the pooled world loader.
	RendererType string

	// Browser receives the document in replace mode.
	Browser Browser

	// Target receives the root children in create mode.
	Target ChildrenTarget

	// Field is the target field index in create mode.
	Field int

	// Space receives the document's routes in create mode.
	Space ExecutionSpace

	// Done is called once with the loaded document or the error. Optional.
	Done func(doc WorldDocument, err error)
}

// Consumers is the live consumer list of a request being processed.
// Registrations may be removed concurrently while a handler runs.
type Consumers interface {
	// List returns the registrations still attached.
	List() []*LoadDetails

	// Len returns the number of registrations still attached.
	Len() int

	// Apply runs fn while holding the request lock if d is still attached,
	// and reports whether fn ran. Removal waits for fn to return.
	Apply(d *LoadDetails, fn func()) bool
}
