package cli

import "errors"

// ErrMissingWorldManager is returned when the world manager is not provided.
var ErrMissingWorldManager = errors.New("cli: world manager is required")

// ErrMissingContentManager is returned when the content manager is not provided.
var ErrMissingContentManager = errors.New("cli: content load manager is required")

// ErrMissingScriptManager is returned when the script manager is not provided.
var ErrMissingScriptManager = errors.New("cli: script manager is required")

// ErrMissingHost is returned when the world host is not provided.
var ErrMissingHost = errors.New("cli: world host is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("cli: settings service is required")
