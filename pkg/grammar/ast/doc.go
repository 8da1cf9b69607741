// Package ast defines the Abstract Syntax Tree for Callisto grammars.
//
// A grammar is a tree of parsing processes. The node kinds form a closed
// set: decomposition, cascade, extract_part, and extract_parts. Composite
// nodes (cascade, extract_parts) reference their children either inline or
// by name through the grammar's shared definitions, which allows one leaf
// (e.g. an apartment-number extractor) to be reused across several trees
// without duplication.
//
// AST nodes are plain data: they carry pattern text, not compiled patterns.
// Compilation into an executable process tree happens in pkg/engine.
package ast
