package transport

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/decoders"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func testDecoder() ContentDecoder {
	return decoders.Default()
}

// stubLoader records the URLs it was asked to open.
type stubLoader struct {
	opened []string
}

func (s *stubLoader) Open(_ context.Context, rawURL string) (driven.Connection, error) {
	s.opened = append(s.opened, rawURL)
	return newConnection(rawURL, "text/plain", bytes.NewReader(nil), nil, nil), nil
}
