package text

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestDecoder_ContentTypes(t *testing.T) {
	types := New().ContentTypes()
	assert.Contains(t, types, "application/ecmascript")
	assert.Contains(t, types, "application/x-vrmlscript")
}

func TestDecoder_Decode(t *testing.T) {
	content, err := New().Decode(context.Background(), "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
}

func TestDecoder_Decode_StripsBOM(t *testing.T) {
	content, err := New().Decode(context.Background(), "application/javascript",
		strings.NewReader("\xEF\xBB\xBFfunction f() {}"))
	require.NoError(t, err)
	assert.Equal(t, "function f() {}", content)
}

func TestDecoder_Decode_InvalidUTF8(t *testing.T) {
	_, err := New().Decode(context.Background(), "text/plain", strings.NewReader("\xff\xfe"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "utf-8")
}

func TestDecoder_Decode_ReadError(t *testing.T) {
	_, err := New().Decode(context.Background(), "text/plain", errReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
