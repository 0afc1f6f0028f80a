// Package format normalizes the buffer after every content change.
//
// Valid documents are canonicalized with a deterministic 2-space-indent
// pretty-printer so that node discovery sees one structural token per line.
// Invalid documents fall back to a tolerant re-indentation pass that never
// fails, guaranteeing the buffer stays line-structured and navigable while
// the user fixes their input.
package format
