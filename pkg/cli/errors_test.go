package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "file and field",
			err:  NewConfigError("config.yaml", "grammars.dir", "directory does not exist"),
			want: "config config.yaml: grammars.dir: directory does not exist",
		},
		{
			name: "file only",
			err:  NewConfigError("config.yaml", "", "failed to load config: no such file"),
			want: "config config.yaml: failed to load config: no such file",
		},
		{
			name: "field only",
			err:  NewConfigError("", "grammars.dir", "directory does not exist"),
			want: "config: grammars.dir: directory does not exist",
		},
		{
			name: "message only",
			err:  NewConfigError("", "", "unreadable"),
			want: "config: unreadable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("registry load failed")
	err := NewCommandError("serve", cause)

	want := "callisto serve: registry load failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() = false, want CommandError to unwrap to its cause")
	}
}
