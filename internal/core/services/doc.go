// Package services implements the driving port interfaces.
// Services contain the loader's core logic: the shared load queue, the
// worker pool that drains it, the content, script and world handlers,
// and the managers that walk scenes and register their URL fields.
//
// Services depend only on driven ports; transports, caches, parsers and
// storage are supplied by adapters.
package services
