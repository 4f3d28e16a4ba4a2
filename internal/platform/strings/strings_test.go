package strings

import "testing"

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"events", "/events"},
		{"/events", "/events"},
		{" /events/ ", "/events"},
		{"//events//", "/events"},
	}
	for _, tc := range cases {
		if got := MustPrefix(tc.in); got != tc.want {
			t.Errorf("MustPrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMustPrefix_PanicsOnRoot(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for bare root")
		}
	}()
	MustPrefix("  / ")
}

func TestPtrAndDeref(t *testing.T) {
	t.Parallel()

	if Ptr("") != nil {
		t.Fatalf("Ptr(\"\") should be nil")
	}
	p := Ptr("x")
	if p == nil || *p != "x" {
		t.Fatalf("Ptr(\"x\") = %v", p)
	}
	if Deref(nil) != "" {
		t.Fatalf("Deref(nil) should be empty")
	}
	if Deref(p) != "x" {
		t.Fatalf("Deref roundtrip failed")
	}
}

func TestSQLNull(t *testing.T) {
	t.Parallel()

	if SQLNull("  ") != nil {
		t.Fatalf("blank should map to nil")
	}
	if SQLNull("a") != "a" {
		t.Fatalf("non-blank should pass through")
	}
}

func TestCollapseSpace(t *testing.T) {
	t.Parallel()

	if got := CollapseSpace("  a \t b\n\nc  "); got != "a b c" {
		t.Fatalf("CollapseSpace = %q", got)
	}
}
