// Package render provides reference drawing sinks for merged scenes.
//
// The layout engine treats the rendering surface as opaque: a sink accepts
// node positions, edges, and decoration descriptors and paints them
// however it wants. This package ships three sinks:
//
//   - JSON: the raw sink contract, for external renderers
//   - SVG: a self-contained vector rendering
//   - DOT: a Graphviz export of the road graph, for debugging graph shape
//
// All sinks order their output deterministically so identical scenes
// produce identical bytes.
package render
