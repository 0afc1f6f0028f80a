// Package feature maps each GeoJSON Feature object in the buffer to a
// contiguous line range and a content-stable key.
//
// The key survives line-position churn: explicit top-level id wins, then
// properties.id, then a hash of the geometry type and coordinates. Keys are
// what visibility toggling and fold bookkeeping hang on to while the
// document shifts underneath them.
package feature
