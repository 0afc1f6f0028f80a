// Package engine is the embeddable editing engine for bracket-delimited
// feature documents. One Engine owns a line buffer, a foldable-node
// registry, a feature index, cursor and selection state, an edit guard
// layer, a reformatter, and snapshot-based undo history.
//
// Hosts drive the engine through resolved input (commands, text, pointer
// positions) and observe it through the event bus: document.change carries
// the emitted feature JSON, document.error carries parse failures, and
// render.lines signals that the visible-line projection changed.
//
// The engine is internally synchronized; all exported methods are safe for
// concurrent use, though the intended model is a single host goroutine.
package engine
