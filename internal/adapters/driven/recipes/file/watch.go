package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/healthdoc/internal/logger"
)

// Watch invalidates cached recipes whenever their files change. It blocks
// until ctx is done and is meant to run in its own goroutine. onChange, if
// non-nil, is called with the affected id after invalidation.
func (p *Provider) Watch(ctx context.Context, onChange func(id string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(p.dir); err != nil {
		return fmt.Errorf("watch %s: %w", p.dir, err)
	}
	logger.Debug("Watching recipes in %s", p.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			id, isRecipe := recipeID(filepath.Base(event.Name))
			if !isRecipe || event.Op == fsnotify.Chmod {
				continue
			}
			p.Invalidate(id)
			logger.Debug("Recipe %s changed (%s), cache invalidated", id, event.Op)
			if onChange != nil {
				onChange(id)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Recipe watcher error: %v", err)
		}
	}
}
