package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dgnsrekt/cloudspeak/utils"
)

// ErrWatcherClosed is returned by Next once Close has been called.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher reloads a source file whenever it is written. The parent
// directory is watched rather than the file so that editors which replace
// the file on save are still noticed.
type Watcher struct {
	path    string
	opts    Options
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching path.
func NewWatcher(path string, opts Options) (*Watcher, error) {
	path, err := filepath.Abs(utils.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("unable to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("error adding %s to fsnotify watcher: %w", dir, err)
	}
	log.Info("fsnotify watching dir", "dir", dir)

	return &Watcher{path: path, opts: opts, watcher: fw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Next blocks until the file changes and returns its new text.
func (w *Watcher) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return "", ErrWatcherClosed
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			text, err := Load(w.path, w.opts)
			if err != nil {
				// the file may be mid-rewrite; wait for the next event
				log.Debug("reload failed", "file", w.path, "error", err)
				continue
			}
			return text, nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return "", ErrWatcherClosed
			}
			log.Debug("fsnotify error", "file", w.path, "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
