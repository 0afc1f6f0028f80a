package scan

import "testing"

func TestStepIgnoresStrings(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		open  byte
		close byte
		want  int
	}{
		{"plain", "{{}", '{', '}', 1},
		{"bracket in string", `"{" {`, '{', '}', 1},
		{"escaped quote", `"a\"{" {`, '{', '}', 1},
		{"escaped backslash", `"a\\" {`, '{', '}', 1},
		{"arrays", `[[1, 2], [3]]`, '[', ']', 0},
		{"all in string", `"{}{}{"`, '{', '}', 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st State
			if got := BracketDelta(&st, tt.text, tt.open, tt.close); got != tt.want {
				t.Errorf("BracketDelta(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestStateAcrossLines(t *testing.T) {
	var st State
	BracketDelta(&st, `"unterminated {`, '{', '}')
	if !st.InString() {
		t.Fatal("expected scanner to remain in string")
	}
	if got := BracketDelta(&st, `still inside" {`, '{', '}'); got != 1 {
		t.Errorf("delta after string close = %d, want 1", got)
	}
}
