// Callisto is a grammar-driven field parsing service for structured text.
//
// It compiles declarative YAML grammars into regex-backed process trees and
// parses free-form values (street addresses, names, phone fields) into their
// component parts, providing:
//   - Four composable parsing strategies (decomposition, cascade,
//     extract_part, extract_parts)
//   - An HTTP service with hot-reloaded grammar directories
//   - A privacy-conscious audit trail of parse operations
//   - Prometheus metrics for parse traffic
//
// Usage:
//
//	# Start the parsing server with default configuration
//	callisto serve
//
//	# Start with a custom configuration file
//	callisto serve --config /path/to/config.yaml
//
//	# Parse a value against a grammar from the command line
//	callisto parse --grammar grammars/street-address.yaml --field street-address "123 Main St Apt 4"
//
//	# Validate grammar files
//	callisto validate --file grammars/street-address.yaml
//
//	# List grammars in a directory
//	callisto grammars --dir grammars/
//
//	# Show version information
//	callisto version
package main

func main() {
	Execute()
}
