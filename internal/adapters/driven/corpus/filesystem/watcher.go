package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/quill-cli/internal/logger"
)

// DefaultDebounce is how long the watcher waits for more events before
// reporting a batch.
const DefaultDebounce = 500 * time.Millisecond

// Event is a change to one corpus file.
type Event struct {
	// Path is the file that changed.
	Path string

	// Removed is true when the file was deleted or renamed away.
	Removed bool
}

// Watcher reports changes to the corpus files of a directory.
type Watcher struct {
	reader   *Reader
	debounce time.Duration
}

// NewWatcher creates a watcher that follows the reader's file pattern.
// A zero debounce uses DefaultDebounce.
func NewWatcher(reader *Reader, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{reader: reader, debounce: debounce}
}

// Watch starts watching dir. Events that arrive within the debounce window are
// delivered together. The channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan []Event, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan []Event)
	go w.loop(ctx, dir, fsw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, dir string, fsw *fsnotify.Watcher, out chan<- []Event) {
	defer close(out)
	defer fsw.Close()

	var pending []Event
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			change, relevant := w.handleFsEvent(ev)
			if !relevant {
				continue
			}
			pending = append(pending, change)
			flush = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", dir, err)

		case <-flush:
			flush = nil
			batch := pending
			pending = nil
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent converts an fsnotify event into a corpus change.
// Chmod-only events, directories and files outside the pattern are ignored.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) (Event, bool) {
	if !w.reader.matches(filepath.Base(ev.Name)) {
		return Event{}, false
	}

	switch {
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		return Event{Path: ev.Name, Removed: true}, true

	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil || info.IsDir() {
			return Event{}, false
		}
		return Event{Path: ev.Name}, true

	default:
		return Event{}, false
	}
}
