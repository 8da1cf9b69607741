package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/callisto/pkg/telemetry/metrics"
)

const sampleGrammar = `
grammar_version: "1.0"
name: %s
version: "1.0.0"
fields:
  street-address:
    kind: decomposition
    pattern: '(?P<house_number>\d+)\s+(?P<street_name>.+)'
`

// writeGrammar writes a minimal valid grammar with the given name into dir.
func writeGrammar(t *testing.T, dir, filename, name string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	src := []byte(fmt.Sprintf(sampleGrammar, name))
	if err := os.WriteFile(path, src, 0o644); err != nil {
		t.Fatalf("WriteFile(%q) error: %v", path, err)
	}
	return path
}

func TestRegistry_LoadAndGet(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "us.yaml", "us-address")
	writeGrammar(t, dir, "br.yml", "br-address")

	reg, err := New(&Config{Dir: dir}, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := reg.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	eng, ok := reg.Get("us-address")
	if !ok {
		t.Fatal("Get(us-address) = false, want loaded grammar")
	}
	r, err := eng.Parse("street-address", "1234 Main Street")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !r.Matched() {
		t.Error("Parse() did not match, want match")
	}

	if _, ok := reg.Get("mx-address"); ok {
		t.Error("Get(mx-address) = true, want false for unknown grammar")
	}
}

func TestRegistry_LoadsGrammarWithLintWarnings(t *testing.T) {
	dir := t.TempDir()
	// Sibling parts capture the same field, which lints as a warning but
	// must not keep the grammar out of the registry.
	src := `
grammar_version: "1.0"
name: warned-address
version: "1.0.0"
fields:
  subpremise:
    kind: extract_parts
    parts:
      - kind: extract_part
        pattern: 'apt\s*(?P<apartment>\w+)'
      - kind: extract_part
        pattern: 'unit\s*(?P<apartment>\w+)'
`
	if err := os.WriteFile(filepath.Join(dir, "warned.yaml"), []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	reg, err := New(&Config{Dir: dir}, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, ok := reg.Get("warned-address"); !ok {
		t.Error("Get(warned-address) = false, want grammar loaded despite lint warning")
	}
}

func TestRegistry_List_SortedWithMetadata(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "z.yaml", "z-address")
	writeGrammar(t, dir, "a.yaml", "a-address")

	reg, err := New(&Config{Dir: dir}, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	infos := reg.List()
	if len(infos) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(infos))
	}
	if infos[0].Name != "a-address" || infos[1].Name != "z-address" {
		t.Errorf("List() order = [%s %s], want sorted by name", infos[0].Name, infos[1].Name)
	}
	if got, want := infos[0].Version, "1.0.0"; got != want {
		t.Errorf("Version = %q, want %q", got, want)
	}
	if len(infos[0].Fields) != 1 || infos[0].Fields[0] != "street-address" {
		t.Errorf("Fields = %v, want [street-address]", infos[0].Fields)
	}
}

func TestRegistry_IgnoresNonGrammarFiles(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "ok.yaml", "ok-address")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# notes"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden.yaml"), []byte("not: yaml: ["), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir() error: %v", err)
	}

	reg, err := New(&Config{Dir: dir}, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := reg.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestRegistry_DuplicateGrammarName(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "one.yaml", "same-name")
	writeGrammar(t, dir, "two.yaml", "same-name")

	if _, err := New(&Config{Dir: dir}, nil, nil); err == nil {
		t.Error("New() succeeded with duplicate grammar names, want error")
	}
}

func TestRegistry_EagerLoadFailsFast(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("fields: ["), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, err := New(&Config{Dir: dir}, nil, nil); err == nil {
		t.Error("New() succeeded with a broken grammar, want error")
	}
}

func TestRegistry_MissingDirectory(t *testing.T) {
	if _, err := New(&Config{Dir: filepath.Join(t.TempDir(), "nope")}, nil, nil); err == nil {
		t.Error("New() succeeded with missing directory, want error")
	}
}

func TestRegistry_Reload(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "one.yaml", "one-address")

	reg, err := New(&Config{Dir: dir}, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := reg.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}

	writeGrammar(t, dir, "two.yaml", "two-address")
	if err := reg.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if got := reg.Len(); got != 2 {
		t.Errorf("Len() after reload = %d, want 2", got)
	}
}

func TestRegistry_ReloadKeepsPreviousSnapshotOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "good.yaml", "good-address")

	reg, err := New(&Config{Dir: dir}, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Break the directory, then reload. The registry must keep serving the
	// last good snapshot.
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("fields: ["), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if err := reg.Reload(); err == nil {
		t.Fatal("Reload() succeeded with broken grammar, want error")
	}

	if _, ok := reg.Get("good-address"); !ok {
		t.Error("Get(good-address) = false after failed reload, want previous snapshot intact")
	}
	if got := reg.Len(); got != 1 {
		t.Errorf("Len() = %d after failed reload, want 1", got)
	}
}

// counterValue sums a named counter across all label combinations.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestRegistry_RecordsRegexTimeouts(t *testing.T) {
	dir := t.TempDir()
	src := `
grammar_version: "1.0"
name: slow-address
version: "1.0.0"
fields:
  street-address:
    kind: decomposition
    pattern: '(?P<x>(a+)+)b'
    anchor_beginning: false
`
	if err := os.WriteFile(filepath.Join(dir, "slow.yaml"), []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	promReg := prometheus.NewRegistry()
	collector := metrics.NewCollector(metrics.DefaultConfig(), promReg)

	reg, err := New(&Config{Dir: dir, MatchTimeout: time.Nanosecond}, collector, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	eng, ok := reg.Get("slow-address")
	if !ok {
		t.Fatal("Get(slow-address) = false, want loaded grammar")
	}
	r, err := eng.Parse("street-address", strings.Repeat("a", 64)+"c")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if r.Matched() {
		t.Errorf("Parse() matched with fields %v, want no match on timeout", r.Fields())
	}
	if got := counterValue(t, promReg, "callisto_parser_regex_timeouts_total"); got < 1 {
		t.Errorf("regex_timeouts_total = %v, want >= 1", got)
	}
}

func TestRegistry_WatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "one.yaml", "one-address")

	promReg := prometheus.NewRegistry()
	collector := metrics.NewCollector(metrics.DefaultConfig(), promReg)

	reg, err := New(&Config{Dir: dir, DebounceInterval: 20 * time.Millisecond}, collector, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Watch(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	writeGrammar(t, dir, "two.yaml", "two-address")

	deadline := time.Now().Add(5 * time.Second)
	for reg.Len() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Len() = %d after watch deadline, want 2", reg.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}

	if got := counterValue(t, promReg, "callisto_parser_registry_reloads_total"); got < 1 {
		t.Errorf("registry_reloads_total = %v, want >= 1", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestRegistry_IsGrammarFile(t *testing.T) {
	reg := &Registry{config: DefaultConfig()}

	tests := []struct {
		name string
		want bool
	}{
		{"address.yaml", true},
		{"address.yml", true},
		{"address.json", false},
		{".hidden.yaml", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := reg.isGrammarFile(tt.name); got != tt.want {
			t.Errorf("isGrammarFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
