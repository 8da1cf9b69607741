// Package registry loads a directory of grammar files, validates and
// compiles each one, and serves the compiled engines by grammar name.
//
// Construction is eager and fail-fast; after that the registry is an
// atomically-swapped immutable snapshot, so lookups are lock-free and a
// reload never disturbs in-flight parses. Watch adds fsnotify-driven
// hot-reload with debouncing, keeping the last good snapshot when an edit
// breaks validation.
package registry
