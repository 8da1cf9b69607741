package parser

import (
	"fmt"
	"os"

	"mercator-hq/callisto/pkg/grammar/ast"
	grammarErrors "mercator-hq/callisto/pkg/grammar/errors"
)

// Parser parses Callisto grammar files into Abstract Syntax Trees.
// It handles YAML parsing, AST construction, and basic shape validation;
// deeper checks (references, patterns) live in pkg/grammar/validator.
type Parser struct {
	// Configuration
	maxFileSize int64 // Maximum file size in bytes (default: 1MB)
	maxDepth    int   // Maximum process nesting depth (default: 10)
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 1 * 1024 * 1024, // 1MB
		maxDepth:    10,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMaxDepth sets the maximum process nesting depth.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Parse parses a grammar file at the given path and returns the AST.
// It returns an error if the file cannot be read, has invalid YAML syntax,
// or contains structural errors.
func (p *Parser) Parse(path string) (*ast.Grammar, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &grammarErrors.Error{
			Type:    grammarErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{
				File: path,
			},
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &grammarErrors.Error{
			Type:    grammarErrors.ErrorTypeIO,
			Message: fmt.Sprintf("File size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{
				File: path,
			},
		}
	}

	yg, err := parseYAMLFile(path)
	if err != nil {
		return nil, &grammarErrors.Error{
			Type:    grammarErrors.ErrorTypeSyntax,
			Message: fmt.Sprintf("YAML parsing failed: %v", err),
			Location: ast.Location{
				File: path,
				Line: 1,
			},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}

	return newBuilder(path, p.maxDepth).buildGrammar(yg)
}

// ParseBytes parses grammar YAML from a byte slice.
// This is useful for testing or parsing grammars from memory.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.Grammar, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &grammarErrors.Error{
			Type:    grammarErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{
				File: sourcePath,
			},
		}
	}

	yg, err := parseYAMLBytes(data)
	if err != nil {
		return nil, &grammarErrors.Error{
			Type:    grammarErrors.ErrorTypeSyntax,
			Message: fmt.Sprintf("YAML parsing failed: %v", err),
			Location: ast.Location{
				File:   sourcePath,
				Line:   1,
				Column: 1,
			},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}

	return newBuilder(sourcePath, p.maxDepth).buildGrammar(yg)
}
