package domain

import (
	"sort"
	"strings"
)

// Inline script pseudo-schemes. URLs using these carry their source text
// after the colon and are never fetched.
var inlineScriptSchemes = []string{"javascript:", "ecmascript:", "vrmlscript:"}

// URLSetKey is the canonical identity of a load request: the handler kind
// plus the sorted, deduplicated set of candidate URLs. Two URL slices that
// name the same resources in a different order map to the same key.
type URLSetKey string

// NewURLSetKey builds the key for a handler kind and candidate URLs.
// Empty entries are ignored.
func NewURLSetKey(kind string, urls []string) URLSetKey {
	set := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		set = append(set, u)
	}
	sort.Strings(set)

	var b strings.Builder
	b.WriteString(kind)
	for _, u := range set {
		b.WriteByte('\n')
		b.WriteString(u)
	}
	return URLSetKey(b.String())
}

// Kind returns the handler kind the key was built for.
func (k URLSetKey) Kind() string {
	s := string(k)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// IsInlineScriptURL returns true for javascript:, ecmascript: and vrmlscript: URLs.
func IsInlineScriptURL(u string) bool {
	lower := strings.ToLower(strings.TrimSpace(u))
	for _, scheme := range inlineScriptSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// StripFragment removes a #reference from a URL. Inline script URLs are
// returned unchanged because '#' may be part of their source text.
func StripFragment(u string) string {
	u = strings.TrimSpace(u)
	if IsInlineScriptURL(u) {
		return u
	}
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}

// CleanURLs strips fragments from every candidate and drops empty entries,
// preserving order.
func CleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if c := StripFragment(u); c != "" {
			out = append(out, c)
		}
	}
	return out
}
