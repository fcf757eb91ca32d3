package labels

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/shortform/internal/debug"
	sferrors "github.com/standardbeagle/shortform/internal/errors"
)

// DefaultWatchDebounce collapses bursts of writes into one reload.
const DefaultWatchDebounce = 200 * time.Millisecond

// WatchOptions tunes Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnReload is called after each debounced reload attempt.
	OnReload func(changed bool, err error)
}

// Watch reloads the file whenever it is written, created or renamed into
// place, until ctx is done. It watches the parent directory so editors that
// replace the file keep being followed. Watch blocks; run it in its own
// goroutine.
func (fs *FileSource) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sferrors.NewLabelSourceError("watch", fs.path, err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(fs.path)); err != nil {
		return sferrors.NewLabelSourceError("watch", fs.path, err)
	}
	debug.LogLabels("watching %s (debounce %v)\n", fs.path, opts.Debounce)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			debug.LogLabels("stopped watching %s\n", fs.path)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fs.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debug.LogLabels("event %v for %s\n", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Stop()
				timer.Reset(opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed, err := fs.Reload()
			if err != nil {
				debug.LogLabels("reload of %s failed: %v\n", fs.path, err)
			}
			if opts.OnReload != nil {
				opts.OnReload(changed, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.LogLabels("watcher error for %s: %v\n", fs.path, err)
		}
	}
}
