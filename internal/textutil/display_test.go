package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer line of dialogue", 10, "a longer…"},
		{"überraschung", 5, "über…"},
		{"anything", 1, "…"},
		{"unbounded", 0, "unbounded"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("  two\tlines\n of  text "); got != "two lines of text" {
		t.Fatalf("Fold = %q", got)
	}
}

func TestTernary(t *testing.T) {
	if Ternary(true, "yes", "no") != "yes" || Ternary(false, 1, 2) != 2 {
		t.Fatal("Ternary returned the wrong branch")
	}
}
