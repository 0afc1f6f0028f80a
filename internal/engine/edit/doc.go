// Package edit implements the text mutation primitives, guarded at fold
// boundaries.
//
// Every primitive first checks its target against the fold state and
// silently no-ops when a mutation would corrupt invisible content: inside a
// hidden zone, before the bracket on a collapsed open line, or at or before
// the bracket on a collapsed close line. Deleting at a fold boundary removes
// the node's entire line range atomically. The guard rejections are expected
// behavior, not errors.
package edit
