package tui

import (
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// MockWorldManager implements driving.WorldManager for testing.
type MockWorldManager struct {
	Doc driven.WorldDocument
	Err error

	Calls    int
	URLs     []string
	Renderer string
}

func (m *MockWorldManager) LoadURL(urls []string, browser driven.Browser, rendererType string,
	done func(driven.WorldDocument, error)) {
	m.Calls++
	m.URLs = urls
	m.Renderer = rendererType
	if m.Err != nil {
		done(nil, m.Err)
		return
	}
	_ = browser.ReplaceWorld(m.Doc, urls[0])
	done(m.Doc, nil)
}

func (m *MockWorldManager) CreateFromURL(_ []string, _ driven.ChildrenTarget, _ int, _ driven.ExecutionSpace,
	_ string, done func(driven.WorldDocument, error)) {
	done(m.Doc, m.Err)
}

func (m *MockWorldManager) NumberInProgress() int {
	return 0
}

type fieldCall struct {
	node  string
	field int
}

// MockLoadManager implements driving.LoadManager for testing.
type MockLoadManager struct {
	InProgress int
	Changed    []fieldCall
	Stopped    []driven.Scene
}

func (m *MockLoadManager) URLChanged(node driven.ExternalNode, field int) {
	m.Changed = append(m.Changed, fieldCall{node: node.NodeName(), field: field})
}

func (m *MockLoadManager) QueueSceneLoad(_ driven.Scene) {}

func (m *MockLoadManager) StopSceneLoad(scene driven.Scene) {
	m.Stopped = append(m.Stopped, scene)
}

func (m *MockLoadManager) QueueNodesLoad(_ []driven.ExternalNode) {}

func (m *MockLoadManager) Clear() {}

func (m *MockLoadManager) NumberInProgress() int {
	return m.InProgress
}

// MockScriptManager implements driving.ScriptManager for testing.
type MockScriptManager struct {
	MockLoadManager
}

func (m *MockScriptManager) RegisterEngine(_ domain.ScriptSpecVersion, _ string, _ driven.ScriptEngine) {
}

// MockHost implements Host for testing.
type MockHost struct {
	Loading bool
	World   driven.WorldDocument
}

func (m *MockHost) ReplaceWorld(doc driven.WorldDocument, _ string) error {
	m.World = doc
	m.Loading = false
	return nil
}

func (m *MockHost) SetWorldLoading(loading bool) {
	m.Loading = loading
}
