package tui

import "errors"

// ErrMissingWorldManager is returned when the world manager is not provided.
var ErrMissingWorldManager = errors.New("tui: world manager is required")

// ErrMissingLoadManagers is returned when a content or script manager is not provided.
var ErrMissingLoadManagers = errors.New("tui: content and script managers are required")

// ErrMissingHost is returned when the world host is not provided.
var ErrMissingHost = errors.New("tui: world host is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

// ErrNoURLs is returned when the app is created without a world URL.
var ErrNoURLs = errors.New("tui: at least one world url is required")
