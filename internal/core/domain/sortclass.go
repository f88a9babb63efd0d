package domain

// SortClass orders service of the load queue. Lower values are served first;
// requests in the same class are served in arrival order.
type SortClass int

// Available sort classes.
const (
	SortScripts SortClass = iota
	SortTextures
	SortMovies
	SortInlines
	SortAudio
	SortShaders
	SortProtos
	SortOther
)

// String returns the string representation.
func (c SortClass) String() string {
	switch c {
	case SortScripts:
		return "scripts"
	case SortTextures:
		return "textures"
	case SortMovies:
		return "movies"
	case SortInlines:
		return "inlines"
	case SortAudio:
		return "audio"
	case SortShaders:
		return "shaders"
	case SortProtos:
		return "protos"
	case SortOther:
		return "other"
	default:
		return unknownDescription
	}
}

// NodeType is the abstract type of a scene-graph node as far as loading cares.
type NodeType int

// Node types used by the load classifier.
const (
	NodeTypeUnknown NodeType = iota
	NodeTypeTexture
	NodeTypeScript
	NodeTypeAudio
	NodeTypeShader
	NodeTypeInline
	NodeTypeProto
	NodeTypeTimeDependent
)

// String returns the string representation.
func (t NodeType) String() string {
	switch t {
	case NodeTypeTexture:
		return "texture"
	case NodeTypeScript:
		return "script"
	case NodeTypeAudio:
		return "audio"
	case NodeTypeShader:
		return "shader"
	case NodeTypeInline:
		return "inline"
	case NodeTypeProto:
		return "proto"
	case NodeTypeTimeDependent:
		return "time-dependent"
	default:
		return unknownDescription
	}
}

// ClassifyNode maps a node's primary and secondary types to the sort class
// its load requests are queued under. A texture that can also play audio
// is a movie.
func ClassifyNode(primary NodeType, secondary []NodeType) SortClass {
	switch primary {
	case NodeTypeTexture:
		for _, t := range secondary {
			if t == NodeTypeAudio || t == NodeTypeTimeDependent {
				return SortMovies
			}
		}
		return SortTextures
	case NodeTypeScript:
		return SortScripts
	case NodeTypeAudio:
		return SortAudio
	case NodeTypeShader:
		return SortShaders
	case NodeTypeInline:
		return SortInlines
	case NodeTypeProto:
		return SortProtos
	default:
		return SortOther
	}
}
