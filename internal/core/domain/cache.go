package domain

import "strings"

// CacheDetails is a decoded resource held by a file cache.
type CacheDetails struct {
	// URL is the normalised URL the entry is keyed by.
	URL string

	// ContentType is the MIME type the content was decoded from.
	ContentType string

	// Content is the decoded content object.
	Content any
}

// Scene document MIME types. Decoded scenes carry live graph state and are
// never shared through a cache.
var sceneContentTypes = map[string]struct{}{
	"model/vrml":          {},
	"x-world/x-vrml":      {},
	"model/x3d+xml":       {},
	"model/x3d+vrml":      {},
	"model/x3d+binary":    {},
	"model/x3d+yaml":      {},
	"model/x3d-vrml":      {},
	"application/x3d+xml": {},
}

// BaseContentType strips parameters such as charset from a MIME type and
// lower-cases it.
func BaseContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// IsSceneContentType returns true if the MIME type names a scene document.
func IsSceneContentType(contentType string) bool {
	_, ok := sceneContentTypes[BaseContentType(contentType)]
	return ok
}

// IsImageContentType returns true for image/* MIME types.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(BaseContentType(contentType), "image/")
}
