// Package history records snapshot-based undo/redo state for the editing
// engine.
//
// Snapshots are taken lazily before a mutating action, and rapid runs of
// same-kind actions (typing, repeated deletes) coalesce into a single undo
// step: a new snapshot is pushed only when the action kind changes or the
// coalescing window has elapsed since the last push. The undo stack is
// bounded; oldest entries drop on overflow.
package history
