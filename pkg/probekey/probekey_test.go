package probekey

import "testing"

func TestLineKeyRoundTrip(t *testing.T) {
	k := Line("com.example.Foo", "bar", 41)
	if got, want := k.String(), "com.example.Foo#bar:41"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	parsed, err := Parse(k.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != k {
		t.Fatalf("Parse round-trip = %+v, want %+v", parsed, k)
	}
}

func TestMethodKeyHasNoLineSuffix(t *testing.T) {
	k := Method("com.example.Foo", "bar")
	if got, want := k.String(), "com.example.Foo#bar"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if k.IsLine() {
		t.Fatal("method-level key reported IsLine() = true")
	}
}

func TestLineZeroOrNegativeCollapsesToMethodKey(t *testing.T) {
	for _, line := range []int{0, -1, -100} {
		k := Line("c.C", "m", line)
		if k.IsLine() {
			t.Fatalf("Line(%d) produced a line key: %+v", line, k)
		}
	}
}

func TestIsLineKey(t *testing.T) {
	cases := map[string]bool{
		"c.C#m:10":  true,
		"c.C#m":     false,
		"c.C#m:":    false,
		"c.C#m:abc": false,
		"c.C#m:0":   true, // grammar only checks shape, not value
	}
	for raw, want := range cases {
		if got := IsLineKey(raw); got != want {
			t.Errorf("IsLineKey(%q) = %v, want %v", raw, got, want)
		}
	}
}
