// Package loader reads document files and optionally watches them for
// changes, debouncing rapid write bursts into a single reload event.
package loader

import (
	"fmt"
	"os"
)

// ReadFile returns the file's bytes. Errors are returned, never panicked,
// so a failed load resolves to a failure indicator at the call site.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
