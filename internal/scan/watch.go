package scan

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher checks bid request files as they are created or rewritten in the
// input directory.
type Watcher struct {
	scanner  *Scanner
	fs       *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher starts watching the scanner's input directory, creating it if needed.
// Events are buffered by the operating system until Run is called.
func (s *Scanner) NewWatcher() (*Watcher, error) {
	if _, err := EnsureDir(s.opts.InputDir); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &FileError{Path: s.opts.InputDir, Message: "failed to create watcher", Cause: err}
	}
	if err := fsw.Add(s.opts.InputDir); err != nil {
		_ = fsw.Close()
		return nil, &FileError{Path: s.opts.InputDir, Message: "failed to watch directory", Cause: err}
	}

	debounce := s.opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{scanner: s, fs: fsw, debounce: debounce}, nil
}

// Run processes settled files until ctx is cancelled. Each file is checked
// once its events have been quiet for the debounce window. onResult may be nil.
func (w *Watcher) Run(ctx context.Context, onResult func(FileResult)) error {
	log := w.scanner.logger
	pending := make(map[string]time.Time)

	ticker := time.NewTicker(max(w.debounce/4, time.Millisecond))
	defer ticker.Stop()

	log.Info("watching for bid requests", zap.String("dir", w.scanner.opts.InputDir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			log.Debug("file event", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			pending[event.Name] = time.Now()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.debounce) {
				result := w.scanner.ProcessFile(ctx, path)
				if onResult != nil {
					onResult(result)
				}
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func relevant(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != inputExt {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

// settled removes and returns, sorted, the paths whose last event is older than window.
func settled(pending map[string]time.Time, now time.Time, window time.Duration) []string {
	var ready []string
	for path, at := range pending {
		if now.Sub(at) >= window {
			ready = append(ready, path)
			delete(pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
