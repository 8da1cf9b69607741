package regex

import (
	"testing"
)

func TestCompile_InvalidPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"empty", ""},
		{"unbalanced paren", `(?P<name>\d+`},
		{"bad group name", `(?P<>\d+)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.pattern); err == nil {
				t.Errorf("Compile(%q) succeeded, want error", tt.pattern)
			}
		})
	}
}

func TestPattern_Match_NamedGroups(t *testing.T) {
	p := MustCompile(`(?P<house_number>\d+)\s+(?P<street_name>.+)`)

	captures, ok, err := p.Match("1234 Main Street")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if !ok {
		t.Fatal("Match() = false, want true")
	}
	if got, want := captures["house_number"], "1234"; got != want {
		t.Errorf("house_number = %q, want %q", got, want)
	}
	if got, want := captures["street_name"], "Main Street"; got != want {
		t.Errorf("street_name = %q, want %q", got, want)
	}
}

func TestPattern_Match_NoMatch(t *testing.T) {
	p := MustCompile(`(?P<digits>\d+)`)

	captures, ok, err := p.Match("no numbers here")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if ok {
		t.Errorf("Match() = true with captures %v, want false", captures)
	}
}

func TestPattern_Match_OmitsNonParticipatingGroups(t *testing.T) {
	// The apartment branch never participates when the input is digits only.
	p := MustCompile(`(?P<house_number>\d+)(?:\s+apt\s+(?P<apartment>\w+))?`)

	captures, ok, err := p.Match("42")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if !ok {
		t.Fatal("Match() = false, want true")
	}
	if _, present := captures["apartment"]; present {
		t.Errorf("apartment group reported as %q, want omitted", captures["apartment"])
	}
	if got, want := captures["house_number"], "42"; got != want {
		t.Errorf("house_number = %q, want %q", got, want)
	}
}

func TestPattern_Match_EmptyCaptureIsPresent(t *testing.T) {
	// A group that participates but captures nothing is reported as "".
	p := MustCompile(`(?P<prefix>[a-z]*)(?P<digits>\d+)`)

	captures, ok, err := p.Match("123")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if !ok {
		t.Fatal("Match() = false, want true")
	}
	got, present := captures["prefix"]
	if !present {
		t.Fatal("prefix group omitted, want present with empty value")
	}
	if got != "" {
		t.Errorf("prefix = %q, want empty string", got)
	}
}

func TestPattern_Match_NoNamedGroups(t *testing.T) {
	p := MustCompile(`\d+`)

	captures, ok, err := p.Match("55")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if !ok {
		t.Fatal("Match() = false, want true")
	}
	if captures == nil {
		t.Fatal("captures = nil, want empty non-nil map")
	}
	if len(captures) != 0 {
		t.Errorf("captures = %v, want empty map", captures)
	}
}

func TestCompileAnchored(t *testing.T) {
	tests := []struct {
		name            string
		pattern         string
		anchorBeginning bool
		anchorEnd       bool
		input           string
		want            bool
	}{
		{"both anchors exact", `\d+`, true, true, "123", true},
		{"both anchors trailing text", `\d+`, true, true, "123 Main", false},
		{"both anchors leading text", `\d+`, true, true, "Apt 123", false},
		{"begin only", `\d+`, true, false, "123 Main", true},
		{"begin only leading text", `\d+`, true, false, "Apt 123", false},
		{"end only", `\d+`, false, true, "Apt 123", true},
		{"end only trailing text", `\d+`, false, true, "123 Main", false},
		{"unanchored", `\d+`, false, false, "Apt 123 Main", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompileAnchored(tt.pattern, tt.anchorBeginning, tt.anchorEnd)
			if err != nil {
				t.Fatalf("CompileAnchored() error: %v", err)
			}
			if got := p.Matches(tt.input); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPattern_Match_Multibyte(t *testing.T) {
	p, err := CompileAnchored(`(?P<street_name>.+?)\s+(?P<house_number>\d+)`, true, true)
	if err != nil {
		t.Fatalf("CompileAnchored() error: %v", err)
	}

	captures, ok, err := p.Match("Straße des Friedens 42")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if !ok {
		t.Fatal("Match() = false, want true")
	}
	if got, want := captures["street_name"], "Straße des Friedens"; got != want {
		t.Errorf("street_name = %q, want %q", got, want)
	}
	if got, want := captures["house_number"], "42"; got != want {
		t.Errorf("house_number = %q, want %q", got, want)
	}
}

func TestPattern_GroupNames(t *testing.T) {
	p := MustCompile(`(?P<a>x)(y)(?P<b>z)`)

	names := p.GroupNames()
	if len(names) != 2 {
		t.Fatalf("GroupNames() = %v, want 2 names", names)
	}
	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	if !got["a"] || !got["b"] {
		t.Errorf("GroupNames() = %v, want [a b]", names)
	}
}

func TestPattern_LeftmostMatch(t *testing.T) {
	p := MustCompile(`(?P<n>\d+)`)

	captures, ok, err := p.Match("first 11 then 22")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if !ok {
		t.Fatal("Match() = false, want true")
	}
	if got, want := captures["n"], "11"; got != want {
		t.Errorf("n = %q, want %q (leftmost match)", got, want)
	}
}

func TestPattern_String(t *testing.T) {
	const src = `(?P<n>\d+)`
	p, err := CompileAnchored(src, true, true)
	if err != nil {
		t.Fatalf("CompileAnchored() error: %v", err)
	}
	if got := p.String(); got != src {
		t.Errorf("String() = %q, want original source %q", got, src)
	}
}
