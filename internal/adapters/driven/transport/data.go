package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure DataLoader implements the interface.
var _ driven.ResourceLoader = (*DataLoader)(nil)

// defaultDataType is the media type of a data URL that declares none.
const defaultDataType = "text/plain;charset=US-ASCII"

// DataLoader opens data: URLs.
type DataLoader struct {
	decoder ContentDecoder
}

// NewDataLoader creates a new data URL loader.
func NewDataLoader(decoder ContentDecoder) *DataLoader {
	return &DataLoader{decoder: decoder}
}

// Open decodes the payload embedded in rawURL.
func (l *DataLoader) Open(ctx context.Context, rawURL string) (driven.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contentType, data, err := ParseDataURL(rawURL)
	if err != nil {
		return nil, err
	}
	if needsSniff(contentType) {
		contentType = resolveContentType(contentType, "", data)
	}
	return newConnection(rawURL, contentType, bytes.NewReader(data), nil, l.decoder), nil
}

// ParseDataURL splits a data URL into its media type and payload.
func ParseDataURL(rawURL string) (string, []byte, error) {
	rest, ok := cutPrefixFold(rawURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%s: %w", rawURL, domain.ErrUnsupportedScheme)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data url missing ',': %w", domain.ErrInvalidInput)
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta = m
		isBase64 = true
	}
	contentType := strings.TrimSpace(meta)
	if contentType == "" || strings.HasPrefix(contentType, ";") {
		contentType = defaultDataType
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return "", nil, fmt.Errorf("data url payload: %w", err)
		}
		return contentType, data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data url payload: %w", err)
	}
	return contentType, []byte(text), nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
