// Package engine interprets compiled Callisto grammars.
//
// The engine is a small interpreter over a closed set of parsing
// strategies, all implementing Process:
//
//   - Decomposition: match the entire input (subject to anchor flags)
//     against one pattern and extract its named capture groups.
//   - ExtractPart: find an anchor phrase inside the input and extract the
//     group(s) around it, optionally gated by a condition pattern.
//   - ExtractParts: apply every part in order and accumulate captures;
//     the last writer wins per field name.
//   - Cascade: try alternatives in order; the first match wins.
//
// Processes can be constructed directly (NewDecomposition, NewExtractPart,
// NewExtractParts, NewCascade) for programmatic grammars, or compiled from
// a grammar AST with Compiler, which also resolves shared definitions so a
// reused leaf is one instance across all trees.
//
// # Concurrency
//
// Every compiled process is immutable and carries no per-call state, so a
// single Engine may serve concurrent Parse calls without locks. A Parse
// call is bounded CPU-only work: each pattern carries a match timeout, and
// a timed-out match degrades to no-match.
//
// # Basic usage
//
//	d, err := engine.NewDecomposition(`(?P<house_number>\d+)\s+(?P<street_name>.+)`, true, true)
//	if err != nil {
//		log.Fatal(err)
//	}
//	r := d.Parse("1234 Main Street")
//	if r.Matched() {
//		name, _ := r.Get("street_name") // "Main Street"
//		_ = name
//	}
package engine
