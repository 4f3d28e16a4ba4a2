package textfold

import (
	"testing"
)

func TestFold_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "block party",
			out:  "block party",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}),
			out:  "foo bar",
		},
		{
			name: "case fold",
			in:   "Night Market PHILLY",
			out:  "night market philly",
		},
		{
			name: "remove zero-widths",
			in:   "ja​zz‍ fest",
			out:  "jazz fest",
		},
		{
			name: "remove combining marks",
			in:   "café crawl",
			out:  "cafe crawl",
		},
		{
			name: "width fold fullwidth",
			in:   "ＦＥＳＴ day",
			out:  "fest day",
		},
		{
			name: "nfkc ligature",
			in:   "oﬃce hours",
			out:  "office hours",
		},
		{
			name: "collapse whitespace",
			in:   "  First \t Friday \n on  Main  ",
			out:  "first friday on main",
		},
		{
			name: "empty",
			in:   "",
			out:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Fold(tc.in); got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	if !Equal("Rittenhouse  Farmers Market", "rittenhouse farmers market") {
		t.Fatal("expected titles to fold equal")
	}
	if Equal("2nd Street Festival", "3rd Street Festival") {
		t.Fatal("distinct titles should not fold equal")
	}
}
