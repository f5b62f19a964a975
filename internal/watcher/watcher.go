// Package watcher re-applies the dotfiles copy plan whenever the source
// repository changes. It debounces bursts of filesystem events (an editor
// save or a git pull touches many files at once) into a single re-apply.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long the tree must stay quiet before a re-apply.
const debounceDelay = 2 * time.Second

// Watcher watches a dotfiles source tree and invokes apply after changes
// settle.
type Watcher struct {
	source string
	apply  func() error

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher over the source tree. apply is called with no
// arguments after each settled burst of changes.
func New(source string, apply func() error) (*Watcher, error) {
	if apply == nil {
		return nil, fmt.Errorf("apply func cannot be nil")
	}
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", source, err)
	}
	return &Watcher{
		source: source,
		apply:  apply,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins watching. Directories added under the source tree later are
// picked up as their creation events arrive.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	err = filepath.Walk(w.source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if filepath.Base(path) == ".git" {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.source, err)
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// New subdirectories must join the watch set.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.fsw.Add(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerCh = timer.C
			} else {
				timer.Reset(debounceDelay)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: %v\n", err)
		case <-timerCh:
			if err := w.apply(); err != nil {
				fmt.Fprintf(os.Stderr, "watcher: re-apply failed: %v\n", err)
			}
			timer = nil
			timerCh = nil
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}
