package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/callisto/pkg/grammar/ast"
	grammarErrors "mercator-hq/callisto/pkg/grammar/errors"
)

const validGrammar = `
grammar_version: "1.0"
name: br-address
version: "1.0.0"
description: Brazilian address grammar
country: BR

definitions:
  apartment-part:
    kind: extract_part
    pattern: '(?i)apto\.?\s*(?P<apartment>\w+)'

fields:
  street-address:
    kind: cascade
    alternatives:
      - kind: decomposition
        pattern: '(?P<street_name>.+?),\s*(?P<house_number>\d+)'
  subpremise:
    kind: extract_parts
    condition: '(?i)apto'
    parts:
      - ref: apartment-part
`

func TestParser_ParseBytes_Valid(t *testing.T) {
	g, err := NewParser().ParseBytes([]byte(validGrammar), "test.yaml")
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}

	if g.GrammarVersion != "1.0" {
		t.Errorf("GrammarVersion = %q, want %q", g.GrammarVersion, "1.0")
	}
	if g.Name != "br-address" {
		t.Errorf("Name = %q, want %q", g.Name, "br-address")
	}
	if g.Country != "BR" {
		t.Errorf("Country = %q, want %q", g.Country, "BR")
	}
	if len(g.Definitions) != 1 {
		t.Fatalf("len(Definitions) = %d, want 1", len(g.Definitions))
	}
	if len(g.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(g.Fields))
	}

	sa := g.GetField("street-address")
	if sa == nil {
		t.Fatal("missing field street-address")
	}
	if sa.Kind != ast.KindCascade {
		t.Errorf("street-address kind = %q, want %q", sa.Kind, ast.KindCascade)
	}
	if len(sa.Alternatives) != 1 {
		t.Fatalf("len(Alternatives) = %d, want 1", len(sa.Alternatives))
	}
	if sa.Alternatives[0].Kind != ast.KindDecomposition {
		t.Errorf("alternative kind = %q, want %q", sa.Alternatives[0].Kind, ast.KindDecomposition)
	}

	sp := g.GetField("subpremise")
	if sp == nil {
		t.Fatal("missing field subpremise")
	}
	if len(sp.Parts) != 1 {
		t.Fatalf("len(Parts) = %d, want 1", len(sp.Parts))
	}
	if !sp.Parts[0].IsRef() {
		t.Error("subpremise part is not a ref, want ref to apartment-part")
	}
	if sp.Parts[0].Ref != "apartment-part" {
		t.Errorf("part ref = %q, want %q", sp.Parts[0].Ref, "apartment-part")
	}
}

func TestParser_ParseBytes_AnchorFlags(t *testing.T) {
	const src = `
grammar_version: "1.0"
name: anchors
version: "1.0.0"
fields:
  loose:
    kind: decomposition
    pattern: '(?P<n>\d+)'
    anchor_beginning: false
  strict:
    kind: decomposition
    pattern: '(?P<n>\d+)'
`
	g, err := NewParser().ParseBytes([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}

	loose := g.GetField("loose")
	if loose.AnchorsBeginning() {
		t.Error("loose.AnchorsBeginning() = true, want false (explicit)")
	}
	if !loose.AnchorsEnd() {
		t.Error("loose.AnchorsEnd() = false, want true (default)")
	}

	strict := g.GetField("strict")
	if !strict.AnchorsBeginning() || !strict.AnchorsEnd() {
		t.Error("strict anchors default to false, want true on both ends")
	}
}

func TestParser_ParseBytes_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			"invalid yaml",
			`fields: [`,
		},
		{
			"missing kind",
			`
grammar_version: "1.0"
name: x
version: "1.0.0"
fields:
  f:
    pattern: '(?P<n>\d+)'
`,
		},
		{
			"unknown kind",
			`
grammar_version: "1.0"
name: x
version: "1.0.0"
fields:
  f:
    kind: decompose
    pattern: '(?P<n>\d+)'
`,
		},
		{
			"ref with extra fields",
			`
grammar_version: "1.0"
name: x
version: "1.0.0"
fields:
  f:
    ref: other
    pattern: '(?P<n>\d+)'
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewParser().ParseBytes([]byte(tt.src), "test.yaml"); err == nil {
				t.Error("ParseBytes() succeeded, want error")
			}
		})
	}
}

func TestParser_UnknownKindSuggestsValidKinds(t *testing.T) {
	const src = `
grammar_version: "1.0"
name: x
version: "1.0.0"
fields:
  f:
    kind: decompose
    pattern: '(?P<n>\d+)'
`
	_, err := NewParser().ParseBytes([]byte(src), "test.yaml")
	if err == nil {
		t.Fatal("ParseBytes() succeeded with unknown kind, want error")
	}
	if want := grammarErrors.SuggestUnknownKind("decompose"); !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain suggestion %q", err, want)
	}
}

func TestParser_ParseBytes_DepthLimit(t *testing.T) {
	const src = `
grammar_version: "1.0"
name: deep
version: "1.0.0"
fields:
  f:
    kind: cascade
    alternatives:
      - kind: cascade
        alternatives:
          - kind: cascade
            alternatives:
              - kind: decomposition
                pattern: '(?P<n>\d+)'
`
	if _, err := NewParser().WithMaxDepth(2).ParseBytes([]byte(src), "test.yaml"); err == nil {
		t.Error("ParseBytes() succeeded past depth limit, want error")
	}
	if _, err := NewParser().ParseBytes([]byte(src), "test.yaml"); err != nil {
		t.Errorf("ParseBytes() with default depth error: %v", err)
	}
}

func TestParser_ParseBytes_SizeLimit(t *testing.T) {
	_, err := NewParser().WithMaxFileSize(8).ParseBytes([]byte(validGrammar), "test.yaml")
	if err == nil {
		t.Fatal("ParseBytes() succeeded past size limit, want error")
	}
	var ge *grammarErrors.Error
	if !errors.As(err, &ge) {
		t.Fatalf("error = %T, want *errors.Error", err)
	}
	if ge.Type != grammarErrors.ErrorTypeIO {
		t.Errorf("error type = %q, want %q", ge.Type, grammarErrors.ErrorTypeIO)
	}
}

func TestParser_Parse_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grammar.yaml")
	if err := os.WriteFile(path, []byte(validGrammar), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	g, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if g.SourceFile != path {
		t.Errorf("SourceFile = %q, want %q", g.SourceFile, path)
	}
	if g.Location.File != path {
		t.Errorf("Location.File = %q, want %q", g.Location.File, path)
	}
}

func TestParser_Parse_MissingFile(t *testing.T) {
	_, err := NewParser().Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Parse() succeeded on missing file, want error")
	}
	var ge *grammarErrors.Error
	if !errors.As(err, &ge) {
		t.Fatalf("error = %T, want *errors.Error", err)
	}
	if ge.Type != grammarErrors.ErrorTypeIO {
		t.Errorf("error type = %q, want %q", ge.Type, grammarErrors.ErrorTypeIO)
	}
}

func TestParser_ParseBytes_PreservesLocations(t *testing.T) {
	g, err := NewParser().ParseBytes([]byte(validGrammar), "test.yaml")
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}

	sa := g.GetField("street-address")
	if sa.Location.Line == 0 {
		t.Error("field location line = 0, want source line recorded")
	}
	if sa.Location.File != "test.yaml" {
		t.Errorf("field location file = %q, want %q", sa.Location.File, "test.yaml")
	}
}
