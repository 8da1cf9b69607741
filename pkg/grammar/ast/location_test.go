package ast

import "testing"

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{File: "us.yaml", Line: 12, Column: 3}, "us.yaml:12:3"},
		{Location{Line: 12, Column: 3}, "<unknown>"},
		{Location{}, "<unknown>"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String(%+v) = %q, want %q", tt.loc, got, tt.want)
		}
	}
}

func TestLocation_IsValid(t *testing.T) {
	tests := []struct {
		loc  Location
		want bool
	}{
		{Location{File: "us.yaml", Line: 1}, true},
		{Location{File: "us.yaml"}, false},
		{Location{Line: 1}, false},
	}
	for _, tt := range tests {
		if got := tt.loc.IsValid(); got != tt.want {
			t.Errorf("IsValid(%+v) = %v, want %v", tt.loc, got, tt.want)
		}
	}
}
