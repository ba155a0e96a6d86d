package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration when the file changes on disk and
// delivers the result on Updates. Styling and calendar geometry pick up
// the new values on the next render.
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
}

// NewWatcher starts watching the loader's config file.
func NewWatcher(loader *Loader) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save
	// and a file watch dies with the old inode.
	if err := fsw.Add(filepath.Dir(loader.GetConfigPath())); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		loader:  loader,
		watcher: fsw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Updates delivers freshly loaded configurations.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	target := w.loader.GetConfigPath()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := w.loader.Load()
			if err != nil {
				continue
			}
			// Keep only the newest config if nobody is reading.
			select {
			case w.updates <- cfg:
			default:
				select {
				case <-w.updates:
				default:
				}
				w.updates <- cfg
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
