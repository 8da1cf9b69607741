package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector

	// None of these may panic on a nil collector.
	c.RecordParse("us-address", "street-address", OutcomeMatch, time.Millisecond)
	c.RecordRegexTimeout()
	c.SetGrammarsLoaded(3)
	c.RecordReload(true)
	c.RecordAuditDrop()

	if c.Registry() != nil {
		t.Error("Registry() != nil for nil collector")
	}
}

func TestNewCollector_Disabled(t *testing.T) {
	if c := NewCollector(&Config{Enabled: false}, nil); c != nil {
		t.Error("NewCollector(disabled) != nil, want nil collector")
	}
}

// gatherCount sums the sample count across all metrics with the given name.
func gatherCount(t *testing.T, reg *prometheus.Registry, name string) float64 {
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
			if m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
			if m.GetGauge() != nil {
				total += m.GetGauge().GetValue()
			}
		}
	}
	return total
}

func TestCollector_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(DefaultConfig(), reg)
	if c == nil {
		t.Fatal("NewCollector() = nil, want enabled collector")
	}

	c.RecordParse("us-address", "street-address", OutcomeMatch, 200*time.Microsecond)
	c.RecordParse("us-address", "street-address", OutcomeNoMatch, 100*time.Microsecond)
	c.RecordRegexTimeout()
	c.SetGrammarsLoaded(5)
	c.RecordReload(true)
	c.RecordReload(false)
	c.RecordAuditDrop()

	if got := gatherCount(t, reg, "callisto_parser_parse_total"); got != 2 {
		t.Errorf("parse_total = %v, want 2", got)
	}
	if got := gatherCount(t, reg, "callisto_parser_regex_timeouts_total"); got != 1 {
		t.Errorf("regex_timeouts_total = %v, want 1", got)
	}
	if got := gatherCount(t, reg, "callisto_parser_grammars_loaded"); got != 5 {
		t.Errorf("grammars_loaded = %v, want 5", got)
	}
	if got := gatherCount(t, reg, "callisto_parser_registry_reloads_total"); got != 2 {
		t.Errorf("registry_reloads_total = %v, want 2", got)
	}
	if got := gatherCount(t, reg, "callisto_parser_audit_records_dropped_total"); got != 1 {
		t.Errorf("audit_records_dropped_total = %v, want 1", got)
	}
}

func TestCollector_UsesProvidedNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(&Config{Enabled: true, Namespace: "custom", Subsystem: "sub"}, reg)

	c.RecordParse("us-address", "street-address", OutcomeMatch, time.Millisecond)

	if got := gatherCount(t, reg, "custom_sub_parse_total"); got != 1 {
		t.Errorf("custom_sub_parse_total = %v, want 1", got)
	}
}
