package level

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"error":   Error,
		"ERR":     Error,
		"warn":    Warn,
		"Warning": Warn,
		"info":    Info,
		"debug":   Debug,
		"trace":   Trace,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("bogus"); err == nil {
		t.Fatal("expected error for unparseable level")
	}
}

func TestOrdering(t *testing.T) {
	if !(Error < Warn && Warn < Info && Info < Debug && Debug < Trace) {
		t.Fatal("level ordering invariant violated")
	}
}

func TestEnabled(t *testing.T) {
	filter := Warn
	if !Error.Enabled(filter) {
		t.Fatal("Error should pass Warn filter")
	}
	if !Warn.Enabled(filter) {
		t.Fatal("Warn should pass Warn filter")
	}
	if Info.Enabled(filter) {
		t.Fatal("Info should not pass Warn filter")
	}
}

func TestRoundTripText(t *testing.T) {
	for _, l := range []Level{Error, Warn, Info, Debug, Trace} {
		b, err := l.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Level
		if err := got.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if got != l {
			t.Fatalf("round trip mismatch: %v != %v", got, l)
		}
	}
}
