package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch blocks watching the grammar directory and reloading the registry on
// changes, until ctx is cancelled. Filesystem events are debounced so an
// editor writing a file in several syscalls triggers exactly one reload;
// a reload that fails validation keeps the previous snapshot active.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.config.Dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", r.config.Dir, err)
	}

	r.logger.Info("watching grammar directory",
		"dir", r.config.Dir,
		"debounce", r.config.DebounceInterval,
	)

	// Debounce timer; created stopped and re-armed by each relevant event.
	debounce := time.NewTimer(r.config.DebounceInterval)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevantEvent(event) {
				continue
			}
			r.logger.Debug("grammar file event",
				"file", event.Name,
				"op", event.Op.String(),
			)
			// Stop and drain before re-arming so a timer that already fired
			// does not queue a second, spurious reload.
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(r.config.DebounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("grammar watcher error", "error", err)

		case <-debounce.C:
			// Reload() logs and keeps the previous snapshot on failure.
			_ = r.Reload()
		}
	}
}

// relevantEvent filters events down to grammar-file content changes.
func (r *Registry) relevantEvent(event fsnotify.Event) bool {
	if !r.isGrammarFile(filepath.Base(event.Name)) {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
