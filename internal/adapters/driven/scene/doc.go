// Package scene provides an in-memory scene graph for the loader: nodes
// with URL fields, scenes that group them, and a headless browser that
// owns the current world.
//
// Nodes bump a field's URL epoch every time SetURL replaces its URL list
// and notify registered URL listeners, so loads already in flight for the
// old URLs are discarded.
package scene
