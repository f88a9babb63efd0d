// Package script provides a source-level scripting engine and a class
// loader for compiled script classes. Programs are prepared for a script
// runtime but never executed here.
package script

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.ScriptEngine = (*Engine)(nil)

// Script content types the engine builds.
const (
	ContentTypeECMAScript  = "application/ecmascript"
	ContentTypeJavaScript  = "application/javascript"
	ContentTypeTextJS      = "text/javascript"
	ContentTypeVRMLScript  = "application/x-vrmlscript"
	ContentTypeScriptClass = "application/x-script-class"
)

// SourceTypes lists the MIME types of script source text.
var SourceTypes = []string{
	ContentTypeECMAScript,
	ContentTypeJavaScript,
	ContentTypeTextJS,
	ContentTypeVRMLScript,
}

var functionPattern = regexp.MustCompile(`function\s+([A-Za-z_$][\w$]*)\s*\(`)

// Program is script content prepared for a runtime.
type Program struct {
	// SpecVersion is the version the engine was registered for.
	SpecVersion domain.ScriptSpecVersion

	// ContentType is the MIME type the program was built from.
	ContentType string

	// Source is the script text. Empty for compiled classes.
	Source string

	// Functions names the top-level functions declared in Source.
	Functions []string

	// Class is the compiled class, for class scripts.
	Class *Class
}

// HasFunction returns true if the program declares name.
func (p *Program) HasFunction(name string) bool {
	for _, f := range p.Functions {
		if f == name {
			return true
		}
	}
	return false
}

// Engine builds programs for one specification version.
type Engine struct {
	version domain.ScriptSpecVersion
}

// NewEngine creates an engine for version.
func NewEngine(version domain.ScriptSpecVersion) *Engine {
	return &Engine{version: version}
}

// Build wraps fetched source or a loaded class into a Program.
func (e *Engine) Build(ctx context.Context, contentType string, source any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ct := domain.BaseContentType(contentType)
	switch src := source.(type) {
	case string:
		if ct == ContentTypeScriptClass {
			return nil, fmt.Errorf("class script with source text: %w", domain.ErrInvalidInput)
		}
		if strings.TrimSpace(src) == "" {
			return nil, fmt.Errorf("empty %s script: %w", ct, domain.ErrInvalidInput)
		}
		return &Program{
			SpecVersion: e.version,
			ContentType: ct,
			Source:      src,
			Functions:   functionNames(src),
		}, nil
	case []byte:
		return e.Build(ctx, contentType, string(src))
	case *Class:
		return &Program{
			SpecVersion: e.version,
			ContentType: ct,
			Class:       src,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported script source %T: %w", source, domain.ErrInvalidInput)
	}
}

func functionNames(src string) []string {
	matches := functionPattern.FindAllStringSubmatch(src, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// EngineRegistrar accepts engine registrations.
type EngineRegistrar interface {
	RegisterEngine(version domain.ScriptSpecVersion, contentType string, engine driven.ScriptEngine)
}

// Register adds engines for both specification versions and every script
// content type, including compiled classes.
func Register(r EngineRegistrar) {
	for _, version := range []domain.ScriptSpecVersion{domain.SpecVRML97, domain.SpecX3D} {
		engine := NewEngine(version)
		for _, ct := range SourceTypes {
			r.RegisterEngine(version, ct, engine)
		}
		r.RegisterEngine(version, ContentTypeScriptClass, engine)
	}
}
