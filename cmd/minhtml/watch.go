package main

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to the source files of tasks.
type Watcher struct {
	watcher *fsnotify.Watcher
	dirs    map[string]bool
	files   map[string]bool

	mu     sync.Mutex
	ignore map[string]bool
}

// NewWatcher returns a new Watcher.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: watcher,
		dirs:    map[string]bool{},
		files:   map[string]bool{},
		ignore:  map[string]bool{},
	}, nil
}

// Close closes the watcher, which closes the channel returned by Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// AddFile watches a file. Its directory is watched so that editors replacing the file are
// noticed too.
func (w *Watcher) AddFile(filename string) error {
	filename = filepath.Clean(filename)
	w.files[filename] = true

	dir := filepath.Dir(filename)
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

// IgnoreNext skips the next write to filename, which is our own output.
func (w *Watcher) IgnoreNext(filename string) {
	w.mu.Lock()
	w.ignore[filepath.Clean(filename)] = true
	w.mu.Unlock()
}

func (w *Watcher) ignored(filename string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ignore[filename] {
		delete(w.ignore, filename)
		return true
	}
	return false
}

// Run watches for file changes and sends the names of changed files.
func (w *Watcher) Run() chan string {
	files := make(chan string, 10)
	go func() {
		changetimes := map[string]time.Time{}
		for w.watcher.Events != nil && w.watcher.Errors != nil {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					w.watcher.Events = nil
					break
				}

				name := filepath.Clean(event.Name)
				if !w.files[name] || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					break
				} else if w.ignored(name) {
					changetimes[name] = time.Now()
					break
				}
				if info, err := os.Lstat(name); err != nil || !info.Mode().IsRegular() {
					break
				}
				if t, ok := changetimes[name]; !ok || 100*time.Millisecond < time.Since(t) {
					time.Sleep(100 * time.Millisecond) // wait to make sure write is finished
					files <- name
					changetimes[name] = time.Now()
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					w.watcher.Errors = nil
					break
				}
				Error.Println(err)
			}
		}
		close(files)
	}()
	return files
}
