package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mission: Impossible", "Mission- Impossible"},
		{"What If...?", "What If..."},
		{"  AC/DC Live  ", "AC-DC Live"},
		{"", ""},
		{"<illegal>|name", "illegalname"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeComparable(t *testing.T) {
	if got := NormalizeComparable("The Lord & The Rings!"); got != "thelordandtherings" {
		t.Errorf("unexpected normalization: %q", got)
	}
	if got := NormalizeComparable("  "); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
	if NormalizeComparable("3 Body Problem") != "3bodyproblem" {
		t.Error("digits should survive normalization")
	}
}

func TestIsNumericToken(t *testing.T) {
	if !IsNumericToken("1998") {
		t.Error("expected 1998 to be numeric")
	}
	if IsNumericToken("S01") || IsNumericToken("") {
		t.Error("unexpected numeric classification")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  a   b \t c "); got != "a b c" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
