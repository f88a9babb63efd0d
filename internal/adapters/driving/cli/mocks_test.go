package cli

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/scene"
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// mockWorldManager implements driving.WorldManager for testing.
type mockWorldManager struct {
	doc driven.WorldDocument
	err error

	urls     []string
	renderer string
}

func (m *mockWorldManager) LoadURL(urls []string, browser driven.Browser, rendererType string,
	done func(driven.WorldDocument, error)) {
	m.urls = urls
	m.renderer = rendererType
	if m.err != nil {
		done(nil, m.err)
		return
	}
	if browser != nil {
		_ = browser.ReplaceWorld(m.doc, urls[0])
	}
	done(m.doc, nil)
}

func (m *mockWorldManager) CreateFromURL(_ []string, _ driven.ChildrenTarget, _ int, _ driven.ExecutionSpace,
	_ string, done func(driven.WorldDocument, error)) {
	done(m.doc, m.err)
}

func (m *mockWorldManager) NumberInProgress() int {
	return 0
}

// mockLoadManager implements driving.LoadManager for testing.
type mockLoadManager struct {
	inProgress int
}

func (m *mockLoadManager) URLChanged(_ driven.ExternalNode, _ int) {}
func (m *mockLoadManager) QueueSceneLoad(_ driven.Scene)           {}
func (m *mockLoadManager) StopSceneLoad(_ driven.Scene)            {}
func (m *mockLoadManager) QueueNodesLoad(_ []driven.ExternalNode)  {}
func (m *mockLoadManager) Clear()                                  {}
func (m *mockLoadManager) NumberInProgress() int                   { return m.inProgress }

// mockScriptManager implements driving.ScriptManager for testing.
type mockScriptManager struct {
	mockLoadManager
}

func (m *mockScriptManager) RegisterEngine(_ domain.ScriptSpecVersion, _ string, _ driven.ScriptEngine) {
}

// mockThrottle implements driving.FramerateThrottle for testing.
type mockThrottle struct {
	stopped atomic.Bool
}

func (m *mockThrottle) Start(_ context.Context) error { return nil }

func (m *mockThrottle) Stop() error {
	m.stopped.Store(true)
	return nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	mu          sync.Mutex
	settings    domain.LoaderSettings
	validateErr error
	saved       bool
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultLoaderSettings()}
}

func (m *mockSettingsService) Get() (*domain.LoaderSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.LoaderSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = *settings
	m.saved = true
	return nil
}

func (m *mockSettingsService) SetCacheMode(mode domain.CacheMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Cache.Mode = mode
	return nil
}

func (m *mockSettingsService) SetWorkers(n int) error {
	if n < 1 {
		return domain.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Pool.Workers = n
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.LoaderSettings {
	return domain.DefaultLoaderSettings()
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	records []domain.LoadRecord
	err     error
	limit   int
	pruned  bool
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.LoadRecord, error) {
	m.limit = limit
	return m.records, m.err
}

func (m *mockHistoryService) Prune(_ context.Context) error {
	m.pruned = true
	return m.err
}

// mockWatcher implements FileWatcher for testing.
type mockWatcher struct {
	tracked  driven.Scene
	trackErr error
	runErr   error
	ran      bool
}

func (m *mockWatcher) TrackScene(s driven.Scene) error {
	m.tracked = s
	return m.trackErr
}

func (m *mockWatcher) Run(_ context.Context) error {
	m.ran = true
	return m.runErr
}

type testEnv struct {
	world    *mockWorldManager
	content  *mockLoadManager
	scripts  *mockScriptManager
	throttle *mockThrottle
	host     *scene.Browser
	settings *mockSettingsService
	history  *mockHistoryService
	watcher  *mockWatcher
}

// setupCLITest installs mocks for every port and restores the previous
// services when the test ends.
func setupCLITest(t *testing.T) *testEnv {
	t.Helper()

	oldWorld, oldContent, oldScripts := worldManager, contentManager, scriptManager
	oldThrottle, oldHost, oldRenderer := frameThrottle, worldHost, rendererType
	oldSettings, oldHistory, oldWatcher := settingsService, historyService, fileWatcher
	oldTimeout := loadTimeout
	t.Cleanup(func() {
		worldManager, contentManager, scriptManager = oldWorld, oldContent, oldScripts
		frameThrottle, worldHost, rendererType = oldThrottle, oldHost, oldRenderer
		settingsService, historyService, fileWatcher = oldSettings, oldHistory, oldWatcher
		loadTimeout = oldTimeout
	})

	env := &testEnv{
		world:    &mockWorldManager{doc: scene.New("file:///world.yaml")},
		content:  &mockLoadManager{},
		scripts:  &mockScriptManager{},
		throttle: &mockThrottle{},
		host:     scene.NewBrowser(nil),
		settings: newMockSettingsService(),
		history:  &mockHistoryService{},
		watcher:  &mockWatcher{},
	}
	require.NoError(t, Configure(&Ports{
		World:    env.world,
		Content:  env.content,
		Scripts:  env.scripts,
		Throttle: env.throttle,
		Host:     env.host,
		Settings: env.settings,
		History:  env.history,
		Watcher:  env.watcher,
	}))
	loadTimeout = time.Minute
	return env
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
