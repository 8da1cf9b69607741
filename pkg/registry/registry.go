package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"mercator-hq/callisto/pkg/engine"
	"mercator-hq/callisto/pkg/grammar"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// Config contains configuration for the grammar registry.
type Config struct {
	// Dir is the directory holding grammar files.
	Dir string

	// Extensions is the list of file extensions treated as grammar files.
	// Default: [".yaml", ".yml"]
	Extensions []string

	// MatchTimeout bounds every regex match attempt in compiled engines.
	// Default: regex.DefaultMatchTimeout
	MatchTimeout time.Duration

	// DebounceInterval is the time to wait after a filesystem event before
	// reloading, preventing reload storms while files are being written.
	// Default: 100ms
	DebounceInterval time.Duration
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() *Config {
	return &Config{
		Extensions:       []string{".yaml", ".yml"},
		DebounceInterval: 100 * time.Millisecond,
	}
}

// Info describes a loaded grammar for listings.
type Info struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Country     string   `json:"country,omitempty"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields"`
	SourceFile  string   `json:"source_file"`
}

// snapshot is one immutable generation of compiled grammars. Lookups read
// the current snapshot without locks; reloads build a complete replacement
// and swap it atomically, so in-flight parses keep the tree they started
// with.
type snapshot struct {
	engines map[string]*engine.Engine
	infos   []Info
}

// Registry loads, validates, and compiles every grammar in a directory and
// serves the compiled engines by grammar name.
type Registry struct {
	config   *Config
	logger   *slog.Logger
	metrics  *metrics.Collector
	compiler *engine.Compiler
	current  atomic.Pointer[snapshot]
}

// New creates a registry and eagerly loads the configured directory.
// The initial load is fail-fast: any unreadable, invalid, or uncompilable
// grammar is an error, since serving a partial grammar set at startup masks
// authoring mistakes.
func New(config *Config, collector *metrics.Collector, logger *slog.Logger) (*Registry, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".yaml", ".yml"}
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "registry")

	r := &Registry{
		config:  config,
		logger:  logger,
		metrics: collector,
		compiler: engine.NewCompiler(&engine.CompilerConfig{
			MatchTimeout: config.MatchTimeout,
			OnRegexTimeout: func(string) {
				collector.RecordRegexTimeout()
			},
		}, logger),
	}

	snap, err := r.load()
	if err != nil {
		return nil, err
	}
	r.publish(snap)

	logger.Info("grammar registry loaded",
		"dir", config.Dir,
		"grammars", len(snap.engines),
	)
	return r, nil
}

// Get returns the compiled engine for a grammar name.
func (r *Registry) Get(name string) (*engine.Engine, bool) {
	snap := r.current.Load()
	e, ok := snap.engines[name]
	return e, ok
}

// List returns metadata for every loaded grammar, sorted by name.
func (r *Registry) List() []Info {
	return r.current.Load().infos
}

// Len returns the number of loaded grammars.
func (r *Registry) Len() int {
	return len(r.current.Load().engines)
}

// Reload rebuilds the snapshot from disk and swaps it in. If the rebuild
// fails, the previous snapshot stays active and the error is returned.
func (r *Registry) Reload() error {
	snap, err := r.load()
	if err != nil {
		r.metrics.RecordReload(false)
		r.logger.Error("grammar reload failed, keeping previous snapshot",
			"dir", r.config.Dir,
			"error", err,
		)
		return err
	}

	r.publish(snap)
	r.metrics.RecordReload(true)
	r.logger.Info("grammar registry reloaded",
		"dir", r.config.Dir,
		"grammars", len(snap.engines),
	)
	return nil
}

func (r *Registry) publish(snap *snapshot) {
	r.current.Store(snap)
	r.metrics.SetGrammarsLoaded(len(snap.engines))
}

// load parses, validates, and compiles every grammar file in the directory.
func (r *Registry) load() (*snapshot, error) {
	entries, err := os.ReadDir(r.config.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar directory %q: %w", r.config.Dir, err)
	}

	snap := &snapshot{engines: make(map[string]*engine.Engine)}
	sources := make(map[string]string) // grammar name -> source file

	for _, entry := range entries {
		if entry.IsDir() || !r.isGrammarFile(entry.Name()) {
			continue
		}
		path := filepath.Join(r.config.Dir, entry.Name())

		g, warnings, err := grammar.ParseAndValidate(path)
		if err != nil {
			return nil, fmt.Errorf("grammar %q: %w", path, err)
		}
		for _, w := range warnings {
			r.logger.Warn("grammar lint warning",
				"grammar", g.Name,
				"message", w.Message,
				"location", w.Location.String(),
			)
		}

		if prev, dup := sources[g.Name]; dup {
			return nil, fmt.Errorf("grammar name %q defined in both %q and %q", g.Name, prev, path)
		}
		sources[g.Name] = path

		eng, err := r.compiler.Compile(g)
		if err != nil {
			return nil, fmt.Errorf("grammar %q: %w", path, err)
		}

		snap.engines[g.Name] = eng
		snap.infos = append(snap.infos, Info{
			Name:        g.Name,
			Version:     g.Version,
			Country:     g.Country,
			Description: g.Description,
			Fields:      eng.Fields(),
			SourceFile:  path,
		})
	}

	sort.Slice(snap.infos, func(i, j int) bool {
		return snap.infos[i].Name < snap.infos[j].Name
	})
	return snap, nil
}

func (r *Registry) isGrammarFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := filepath.Ext(name)
	for _, allowed := range r.config.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
