package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure FileLoader implements the interface.
var _ driven.ResourceLoader = (*FileLoader)(nil)

// FileLoader opens file URLs and bare local paths.
type FileLoader struct {
	decoder ContentDecoder
}

// NewFileLoader creates a new local file loader.
func NewFileLoader(decoder ContentDecoder) *FileLoader {
	return &FileLoader{decoder: decoder}
}

// Open opens the file named by rawURL.
func (l *FileLoader) Open(ctx context.Context, rawURL string) (driven.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := ResolvePath(rawURL)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("open %s: is a directory", path)
	}

	body := bufio.NewReaderSize(f, sniffLen)
	var head []byte
	contentType := typeByName(path)
	if contentType == "" {
		head, _ = body.Peek(sniffLen)
	}
	contentType = resolveContentType(contentType, path, head)

	return newConnection(FileURL(path), contentType, body, f, l.decoder), nil
}

// ResolvePath converts a file URL or bare path to a local path.
func ResolvePath(rawURL string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(rawURL), "file:") {
		return filepath.Clean(rawURL), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", rawURL, domain.ErrInvalidInput)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%s: remote file host %q: %w", rawURL, u.Host, domain.ErrUnsupportedScheme)
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return "", fmt.Errorf("%s: empty path: %w", rawURL, domain.ErrInvalidInput)
	}
	return filepath.FromSlash(p), nil
}

// FileURL returns the file URL for a local path.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
