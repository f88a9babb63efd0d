// Package report flattens a loaded scene into one row per resource field
// for the command line and terminal UI.
package report

import (
	"fmt"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// MaxDepth bounds how far nested inline scenes are followed.
const MaxDepth = 8

// Row is one URL field of one node.
type Row struct {
	// Depth is 0 for the world and grows by one per enclosing inline.
	Depth int

	// Node is the node owning the field.
	Node driven.ExternalNode

	// Field is the field index on Node.
	Field int

	// NodeName and FieldName label the row.
	NodeName  string
	FieldName string

	// State is the field's load state when the row was collected.
	State domain.LoadState

	// Source is the URL that produced content, or the first candidate.
	Source string
}

// Optional node capabilities.
type (
	fieldNamer interface {
		FieldName(field int) string
	}
	loadedURIer interface {
		LoadedURI(field int) string
	}
	contentHolder interface {
		Content(field int) (string, any)
	}
	settler interface {
		Settled() bool
	}
)

// Collect returns a row for every URL field of scene, followed directly by
// the rows of any inline scene installed in that field.
func Collect(scene driven.Scene) []Row {
	return collect(scene, 0, nil)
}

func collect(scene driven.Scene, depth int, rows []Row) []Row {
	if scene == nil {
		return rows
	}
	for _, group := range [][]driven.ExternalNode{
		scene.ExternProtos(),
		scene.SingleURLNodes(),
		scene.MultiURLNodes(),
	} {
		for _, node := range group {
			if node == nil {
				continue
			}
			for _, f := range node.URLFields() {
				rows = append(rows, Row{
					Depth:     depth,
					Node:      node,
					Field:     f,
					NodeName:  node.NodeName(),
					FieldName: fieldLabel(node, f),
					State:     node.LoadState(f),
					Source:    fieldSource(node, f),
				})
				if inner := nestedScene(node, f); inner != nil && depth < MaxDepth {
					rows = collect(inner, depth+1, rows)
				}
			}
		}
	}
	return rows
}

func fieldLabel(node driven.ExternalNode, field int) string {
	if n, ok := node.(fieldNamer); ok {
		if name := n.FieldName(field); name != "" {
			return name
		}
	}
	return fmt.Sprintf("#%d", field)
}

func fieldSource(node driven.ExternalNode, field int) string {
	if n, ok := node.(loadedURIer); ok {
		if uri := n.LoadedURI(field); uri != "" {
			return uri
		}
	}
	if urls := domain.CleanURLs(node.URLs(field)); len(urls) > 0 {
		return urls[0]
	}
	return "-"
}

func nestedScene(node driven.ExternalNode, field int) driven.Scene {
	h, ok := node.(contentHolder)
	if !ok {
		return nil
	}
	_, content := h.Content(field)
	scene, _ := content.(driven.Scene)
	return scene
}

// Settled returns true if scene reports every field terminal. Scenes that
// cannot tell are treated as settled.
func Settled(scene driven.Scene) bool {
	if s, ok := scene.(settler); ok {
		return s.Settled()
	}
	return true
}

// Summary counts rows by outcome.
type Summary struct {
	Total   int
	Loaded  int
	Failed  int
	Pending int
}

// Summarise counts rows by state.
func Summarise(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for i := range rows {
		switch rows[i].State {
		case domain.LoadComplete:
			s.Loaded++
		case domain.LoadFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}
