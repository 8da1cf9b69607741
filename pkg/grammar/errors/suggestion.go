package errors

import "fmt"

// SuggestMissingField builds a suggestion for a missing required field.
func SuggestMissingField(field, example string) string {
	return fmt.Sprintf("Add %q to the grammar, e.g. %s: %s", field, field, example)
}

// SuggestUnknownKind builds a suggestion for an unrecognized process kind.
func SuggestUnknownKind(kind string) string {
	return fmt.Sprintf("Replace %q with one of: decomposition, cascade, extract_part, extract_parts", kind)
}

// SuggestUnknownRef builds a suggestion for an unresolved definition reference.
func SuggestUnknownRef(ref string) string {
	return fmt.Sprintf("Define %q under the definitions section, or fix the ref spelling", ref)
}
