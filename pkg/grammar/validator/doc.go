// Package validator validates grammar ASTs before compilation.
//
// Validation runs in two passes:
//
//  1. Structural: required metadata, naming conventions, reference
//     resolution, cycle freedom, and kind/attribute coherence.
//  2. Semantic: every pattern compiles under the engine's regex
//     collaborator, extraction patterns declare named capture groups, and
//     extract_parts children resolve to extract_part processes.
//
// Semantic validation also emits non-fatal warnings for constructs that are
// legal but worth authoring review, such as sibling extract parts capturing
// the same field name.
package validator
