package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file changes
// and passes the fresh config to onReload. It blocks until done is closed
// or the watcher shuts down. The file does not need to exist up front; the
// enclosing directory is watched, so creating it later also triggers a
// reload.
func Watch(done <-chan struct{}, onReload func(*VaultSafeConfig)) error {
	path := Get().ConfigFilePath()
	dir := filepath.Dir(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors typically replace the file on save, which drops a watch on
	// the file itself. Watching the directory survives that.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := Reload(); err != nil {
				fmt.Fprintf(os.Stderr, "Error reloading config: %v\n", err)
				continue
			}
			if onReload != nil {
				onReload(Get())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-done:
			return nil
		}
	}
}
