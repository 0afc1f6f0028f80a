// Package clipboard abstracts clipboard access behind a small interface so
// the engine works both attached to a desktop session and headless. The
// system implementation delegates to the platform clipboard; the memory
// implementation backs tests and embedded hosts.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes text.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// System uses the platform clipboard.
type System struct{}

// NewSystem creates a system clipboard.
func NewSystem() *System {
	return &System{}
}

// Read returns the platform clipboard contents.
func (s *System) Read() (string, error) {
	return clipboard.ReadAll()
}

// Write replaces the platform clipboard contents.
func (s *System) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory creates an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// Read returns the stored text.
func (m *Memory) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Write replaces the stored text.
func (m *Memory) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}
