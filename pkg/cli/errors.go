package cli

import "fmt"

// ConfigError reports an invalid or unloadable configuration value. File
// names the config file the value came from, when one was read.
type ConfigError struct {
	File    string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	switch {
	case e.File != "" && e.Field != "":
		return fmt.Sprintf("config %s: %s: %s", e.File, e.Field, e.Message)
	case e.File != "":
		return fmt.Sprintf("config %s: %s", e.File, e.Message)
	case e.Field != "":
		return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
	default:
		return "config: " + e.Message
	}
}

// CommandError wraps a failure from a subcommand so the root command reports
// which one failed.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("callisto %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError builds a ConfigError. Pass an empty file or field when the
// context is not known at the call site.
func NewConfigError(file, field, message string) *ConfigError {
	return &ConfigError{File: file, Field: field, Message: message}
}

// NewCommandError wraps err with the name of the failing subcommand.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
