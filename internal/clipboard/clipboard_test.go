package clipboard

import "testing"

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.Write("hello"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := m.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "hello" {
		t.Errorf("Read = %q, want hello", got)
	}
}

func TestMemoryStartsEmpty(t *testing.T) {
	got, err := NewMemory().Read()
	if err != nil || got != "" {
		t.Errorf("Read = (%q, %v), want empty", got, err)
	}
}
