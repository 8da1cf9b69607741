// Package grammar provides parsing and validation for Callisto grammar
// files.
//
// A grammar is a declarative, YAML-based description of how unstructured
// address text is parsed into structured field values. Grammar trees
// compose four process kinds: decomposition (whole-input match), cascade
// (ordered alternatives, first match wins), extract_part (search for an
// anchor phrase), and extract_parts (ordered extractions, last writer wins
// per field).
//
// # Architecture
//
// The package is organized into subpackages:
//
//   - ast: Abstract Syntax Tree definitions for parsed grammars
//   - parser: YAML parsing and AST construction
//   - validator: grammar validation (structural, semantic) and lint warnings
//   - errors: rich error types with location and suggestions
//
// # Basic usage
//
//	g, warnings, err := grammar.ParseAndValidate("grammars/br-address.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, w := range warnings {
//		fmt.Println("warning:", w.Message)
//	}
//
// # Grammar structure
//
//	grammar_version: "1.0"
//	name: br-street-address
//	version: 1.0.0
//	country: BR
//
//	definitions:
//	  apartment:
//	    kind: extract_part
//	    pattern: '(?i)apto\.?\s*(?P<apartment>\w+)'
//
//	fields:
//	  street-address:
//	    kind: cascade
//	    alternatives:
//	      - kind: decomposition
//	        pattern: '(?P<street_name>.+?),?\s+(?P<house_number>\d+)'
//	      - ref: apartment
//
// Compilation of validated grammars into executable process trees lives in
// pkg/engine; directory loading and hot-reload live in pkg/registry.
package grammar
