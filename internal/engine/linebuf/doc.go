// Package linebuf provides the line-oriented text buffer that is the ground
// truth for the editing engine. The buffer holds an ordered sequence of lines
// with no embedded newlines; every other model component (node registry,
// feature index, navigation) derives its state from it.
//
// The buffer is not synchronized. The owning engine serializes all access;
// see the engine package for the concurrency model.
package linebuf
