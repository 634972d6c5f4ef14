package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/divVerent/vkeyboard/internal/keyboard"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads a keyboard definition file whenever it changes on disk.
// Only the latest reloaded keyboard is kept until it is received.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	options chan *keyboard.Options
	errs    chan error
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	timer   *time.Timer
}

// Watch starts watching a keyboard definition file.
func Watch(path string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create watcher: %w", err)
	}
	// Editors often replace files, so watch the directory.
	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("could not watch %v: %w", filepath.Dir(path), err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    path,
		watcher: watcher,
		options: make(chan *keyboard.Options, 1),
		errs:    make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	go w.loop()
	return w, nil
}

// Options delivers reloaded keyboards.
func (w *Watcher) Options() <-chan *keyboard.Options {
	return w.options
}

// Errors delivers failures to reload. Errors are dropped while one is pending.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(watchDebounce, w.reload)
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.sendErr(fmt.Errorf("could not reload %v: %w", w.path, err))
		return
	}
	o, err := DecodeKeyboard(w.path, data)
	if err != nil {
		w.sendErr(err)
		return
	}
	for {
		select {
		case w.options <- o:
			return
		default:
		}
		// Replace the stale keyboard nobody picked up yet.
		select {
		case <-w.options:
		default:
		}
	}
}
