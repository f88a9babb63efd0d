package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/cache"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/manifest"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/scene"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/script"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/transport"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/watcher"
	"github.com/custodia-labs/sceneload/internal/adapters/driving/cli"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/services"
	"github.com/custodia-labs/sceneload/internal/decoders"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// classPathEnv lists extra directories searched for compiled script classes.
const classPathEnv = "SCENELOAD_CLASSPATH"

// app owns the long-lived services behind the commands.
type app struct {
	ports   *cli.Ports
	pool    *services.LoaderPool
	store   *sqlite.Store
	watcher *watcher.Watcher
}

// newApp reads settings and wires every adapter to the loader services.
func newApp() (*app, error) {
	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config file unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	fileCache, err := cache.New(settings.Cache)
	if err != nil {
		return nil, fmt.Errorf("create file cache: %w", err)
	}

	a := &app{}

	var history driven.LoadHistoryStore
	if settings.History.Enabled {
		store, err := sqlite.NewStore("")
		if err != nil {
			logger.Warn("load history database unavailable, keeping history in memory: %v", err)
			history = memory.NewHistoryStore()
		} else {
			a.store = store
			history = store.HistoryStore()
		}
	}

	reporter := services.NewLogReporter()
	var poolOpts []services.PoolOption
	if history != nil {
		poolOpts = append(poolOpts, services.WithHistory(history))
	}
	a.pool = services.NewLoaderPool(services.NewLoadQueue(), reporter, settings.Pool.Workers, poolOpts...)

	registry := decoders.Default(manifest.NewDecoder())
	loader := transport.New(transport.ConfigFromSettings(settings.Transport), registry)

	contentHandler := services.NewContentHandler(loader, fileCache,
		services.WithProgress(reporter),
		services.WithCachedImages(settings.Cache.CacheImages),
	)
	content := services.NewContentLoadManager(a.pool, contentHandler)

	scriptHandler := services.NewScriptHandler(loader, fileCache, nil, script.NewDirClassLoader(classDirs()...))
	scripts := services.NewScriptLoader(a.pool, scriptHandler)
	script.Register(scripts)

	// Inline scenes carry scripts too.
	contentHandler.SetSceneQueuer(services.SceneQueuers{content, scripts})

	worlds := services.NewWorldLoaderManager(a.pool, loader, reporter, content, scripts)
	worlds.RegisterLoader(manifest.RendererType, func() driven.WorldLoader {
		return manifest.NewWorldLoader()
	})

	browser := scene.NewBrowser(func(_ driven.WorldDocument, url string) {
		logger.Info("world replaced: %s", url)
	})
	throttle := services.NewFramerateThrottle(browser, settings.Throttle, content, scripts, worlds)

	a.ports = &cli.Ports{
		World:        worlds,
		Content:      content,
		Scripts:      scripts,
		Throttle:     throttle,
		Host:         browser,
		Settings:     settingsService,
		RendererType: manifest.RendererType,
	}
	if history != nil {
		a.ports.History = services.NewHistoryService(history, settings.History.Keep)
	}

	w, err := watcher.New(fileCache, services.URLListeners{content, scripts})
	if err != nil {
		logger.Warn("file watching unavailable: %v", err)
	} else {
		a.watcher = w
		a.ports.Watcher = w
	}

	return a, nil
}

// classDirs returns the working directory followed by SCENELOAD_CLASSPATH entries.
func classDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	for _, dir := range filepath.SplitList(os.Getenv(classPathEnv)) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Close stops the workers and releases files.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Shutdown()
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("close watcher: %v", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("close history: %v", err)
		}
	}
}
