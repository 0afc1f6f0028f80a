// Package node discovers foldable bracket regions in the line buffer and
// tracks which of them are currently folded.
//
// The registry is rebuilt wholesale after every structural edit: node sets
// are derived purely from the buffer text, and ids from a previous rebuild
// generation are never reused. User fold choices survive rebuilds through a
// best-effort key reconciliation; see Registry.Rebuild.
package node
