package parser

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlGrammar represents the intermediate structure for parsing YAML
// grammar files. It matches the YAML structure before transformation to AST.
type yamlGrammar struct {
	GrammarVersion string                 `yaml:"grammar_version"`
	Name           string                 `yaml:"name"`
	Version        string                 `yaml:"version"`
	Description    string                 `yaml:"description"`
	Country        string                 `yaml:"country"`
	Definitions    map[string]yamlProcess `yaml:"definitions"`
	Fields         map[string]yamlProcess `yaml:"fields"`
}

// yamlProcess represents an intermediate process node. A node is either a
// reference (ref set) or a concrete process (kind set).
type yamlProcess struct {
	Kind      string `yaml:"kind"`
	Ref       string `yaml:"ref"`
	Pattern   string `yaml:"pattern"`
	Condition string `yaml:"condition"`

	// Pointers distinguish unset (default true) from explicit false.
	AnchorBeginning *bool `yaml:"anchor_beginning"`
	AnchorEnd       *bool `yaml:"anchor_end"`

	Alternatives []yamlProcess `yaml:"alternatives"`
	Parts        []yamlProcess `yaml:"parts"`

	// Internal tracking
	line   int
	column int
}

// UnmarshalYAML decodes a process node and records its position for error
// reporting.
func (p *yamlProcess) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlProcess
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*p = yamlProcess(out)
	p.line = node.Line
	p.column = node.Column
	return nil
}

// parseYAMLFile reads and parses a YAML grammar file into the intermediate
// structure.
func parseYAMLFile(path string) (*yamlGrammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseYAMLBytes(data)
}

// parseYAMLBytes parses YAML bytes into the intermediate structure.
func parseYAMLBytes(data []byte) (*yamlGrammar, error) {
	var g yamlGrammar
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
