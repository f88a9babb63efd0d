package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/transport"
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure DirClassLoader implements the interface.
var _ driven.ClassLoader = (*DirClassLoader)(nil)

var classMagic = []byte{0xCA, 0xFE, 0xBA, 0xBE}

// Class is a loaded compiled script class.
type Class struct {
	// Name is the class name without the ".class" suffix.
	Name string

	// Path is the file the class was read from.
	Path string

	// Code is the class file contents.
	Code []byte
}

// DirClassLoader loads classes from local files. File URLs and absolute
// paths are read directly; other URLs are looked up by base name under
// the loader's directories, in order.
type DirClassLoader struct {
	dirs []string
}

// NewDirClassLoader creates a class loader searching dirs.
func NewDirClassLoader(dirs ...string) *DirClassLoader {
	return &DirClassLoader{dirs: dirs}
}

// LoadClass reads and checks the class named by url.
func (l *DirClassLoader) LoadClass(ctx context.Context, url string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range l.candidates(url) {
		code, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read class %s: %w", p, err)
		}
		if !bytes.HasPrefix(code, classMagic) {
			return nil, fmt.Errorf("%s is not a class file: %w", p, domain.ErrInvalidInput)
		}
		return &Class{
			Name: strings.TrimSuffix(filepath.Base(p), ".class"),
			Path: p,
			Code: code,
		}, nil
	}
	return nil, fmt.Errorf("%s: %w", url, domain.ErrClassNotFound)
}

// candidates returns the paths to try for url.
func (l *DirClassLoader) candidates(url string) []string {
	var out []string
	name := url
	if transport.Scheme(url) == "file" {
		if p, err := transport.ResolvePath(url); err == nil {
			if filepath.IsAbs(p) {
				out = append(out, p)
			}
			name = p
		}
	} else if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	base := path.Base(filepath.ToSlash(name))
	for _, dir := range l.dirs {
		out = append(out, filepath.Join(dir, base))
	}
	return out
}
