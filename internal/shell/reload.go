package shell

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codefionn/socklet/internal/logger"
)

// reloadDebounce coalesces the event bursts editors and bundlers produce on
// a single save into one reload.
const reloadDebounce = 250 * time.Millisecond

// ReloadWatcher watches built frontend assets and triggers a page reload
// when they change. Only active in devtools mode.
type ReloadWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchReload starts watching path and invokes reload, debounced, on writes
// and creates beneath it. reload runs on the watcher goroutine and must not
// block; dispatching a script through a Dispatcher satisfies that.
func WatchReload(path string, reload func()) (*ReloadWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &ReloadWatcher{
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go w.run(reload)

	logger.Info("Watching %s for frontend changes", path)
	return w, nil
}

func (w *ReloadWatcher) run(reload func()) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("Frontend change: %s", ev.Name)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Frontend watcher error: %v", err)
		}
	}
}

// Close stops the watcher
func (w *ReloadWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
