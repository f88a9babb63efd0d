package domain

// WorldMode selects how a loaded world document is used.
type WorldMode int

const (
	// WorldReplace replaces the browser's current scene (loadURL).
	WorldReplace WorldMode = iota

	// WorldCreate injects the document's root children into a node field
	// (createVrmlFromUrl).
	WorldCreate
)

// String returns the string representation.
func (m WorldMode) String() string {
	switch m {
	case WorldReplace:
		return "replace"
	case WorldCreate:
		return "create"
	default:
		return unknownDescription
	}
}

// Route connects an output field of one node to an input field of another.
type Route struct {
	FromNode  string
	FromField string
	ToNode    string
	ToField   string
}

// ScriptSpecVersion identifies the scene specification a script was
// written against, used to select a scripting engine.
type ScriptSpecVersion int

// Known specification versions.
const (
	SpecVRML97 ScriptSpecVersion = 2
	SpecX3D    ScriptSpecVersion = 3
)
