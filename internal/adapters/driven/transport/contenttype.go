package transport

import (
	"mime"
	"path"
	"strings"

	"github.com/h2non/filetype"
)

// defaultContentType is used when neither the name nor the data identify a type.
const defaultContentType = "application/octet-stream"

// sniffLen is how many leading bytes are inspected. filetype needs at most 262.
const sniffLen = 262

// sceneExtensions maps scene and script extensions the platform MIME
// table rarely knows.
var sceneExtensions = map[string]string{
	".wrl":   "model/vrml",
	".wrz":   "model/vrml",
	".vrml":  "model/vrml",
	".x3d":   "model/x3d+xml",
	".x3dv":  "model/x3d+vrml",
	".x3db":  "model/x3d+binary",
	".yaml":  "model/x3d+yaml",
	".yml":   "model/x3d+yaml",
	".js":    "application/javascript",
	".es":    "application/ecmascript",
	".class": "application/x-script-class",
	".glsl":  "text/x-glsl",
	".vert":  "text/x-glsl",
	".frag":  "text/x-glsl",
	".txt":   "text/plain",
}

// typeByName returns the MIME type implied by a file name, or "".
func typeByName(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return ""
	}
	if ct, ok := sceneExtensions[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// typeByContent sniffs the leading bytes of a stream, or returns "".
func typeByContent(head []byte) string {
	if len(head) == 0 {
		return ""
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// needsSniff reports whether a declared type is too vague to trust.
func needsSniff(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return ct == "" || strings.HasPrefix(ct, defaultContentType) || strings.HasPrefix(ct, "binary/octet-stream")
}

// resolveContentType picks the declared type, then the name's extension,
// then the sniffed type.
func resolveContentType(declared, name string, head []byte) string {
	if !needsSniff(declared) {
		return declared
	}
	if ct := typeByName(name); ct != "" {
		return ct
	}
	if ct := typeByContent(head); ct != "" {
		return ct
	}
	if declared != "" {
		return declared
	}
	return defaultContentType
}
