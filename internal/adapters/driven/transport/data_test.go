package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		ct      string
		data    string
		wantErr error
	}{
		{name: "plain", url: "data:,hello%20world", ct: defaultDataType, data: "hello world"},
		{name: "typed", url: "data:text/x-glsl,void main(){}", ct: "text/x-glsl", data: "void main(){}"},
		{name: "base64", url: "data:text/plain;base64,aGVsbG8=", ct: "text/plain", data: "hello"},
		{name: "charset only", url: "data:;charset=utf-8,x", ct: defaultDataType, data: "x"},
		{name: "upper scheme", url: "DATA:,x", ct: defaultDataType, data: "x"},
		{name: "no comma", url: "data:text/plain", wantErr: domain.ErrInvalidInput},
		{name: "not data", url: "http://example.com", wantErr: domain.ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, data, err := ParseDataURL(tt.url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ct, ct)
			assert.Equal(t, tt.data, string(data))
		})
	}
}

func TestParseDataURL_BadBase64(t *testing.T) {
	_, _, err := ParseDataURL("data:text/plain;base64,!!!")
	require.Error(t, err)
}

func TestDataLoader_Open(t *testing.T) {
	l := NewDataLoader(testDecoder())

	conn, err := l.Open(context.Background(), "data:,hello")
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "text/plain", domain.BaseContentType(conn.ContentType()))
	content, err := conn.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
}
