// File: watch.go
// Title: Configuration File Watching Implementation
// Description: Implements file system watching for configuration files to
//              support hot-reloading and automatic configuration updates.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of file watching
// - 2026-10-16 v0.2.0: Replaced polling with fsnotify, debounced events,
//                      exported FileWatcher for other file-backed documents

package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	prerror "github.com/msto63/pratt/foundation/core/error"
	prstringx "github.com/msto63/pratt/foundation/utils/stringx"
)

// DefaultDebounce collapses the burst of events editors produce on save
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher reports changes of a single file. The parent directory is
// watched so that atomic saves (write to temp file, rename) are seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()
	onError  func(error)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WatchFile starts watching path and calls onChange after each debounced
// burst of write, create or rename events. onError may be nil.
func WatchFile(path string, debounce time.Duration, onChange func(), onError func(error)) (*FileWatcher, error) {
	if prstringx.IsBlank(path) {
		return nil, prerror.New("file path required for watching").
			WithCode(prerror.CodeValidationFailed).
			WithOperation("config.WatchFile")
	}
	if onChange == nil {
		return nil, prerror.New("change callback required for watching").
			WithCode(prerror.CodeValidationFailed).
			WithOperation("config.WatchFile")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, prerror.Wrap(err, "failed to resolve watch path").
			WithCode(prerror.CodeConfigError).
			WithOperation("config.WatchFile").
			WithDetail("filePath", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, prerror.Wrap(err, "failed to create file watcher").
			WithCode(prerror.CodeConfigError).
			WithOperation("config.WatchFile")
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, prerror.Wrap(err, "failed to watch config directory").
			WithCode(prerror.CodeConfigError).
			WithOperation("config.WatchFile").
			WithDetail("filePath", abs)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go fw.loop()

	return fw, nil
}

// Path returns the absolute path being watched
func (fw *FileWatcher) Path() string {
	return fw.path
}

func (fw *FileWatcher) loop() {
	defer close(fw.doneCh)

	for {
		select {
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			fw.trigger()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.onError != nil {
				fw.onError(err)
			}
		}
	}
}

func (fw *FileWatcher) trigger() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		stopped := fw.stopped
		fw.mu.Unlock()
		if !stopped {
			fw.onChange()
		}
	})
}

// Stop ends watching. Pending debounced callbacks are discarded.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh

	if err := fw.watcher.Close(); err != nil {
		return prerror.Wrap(err, "failed to close file watcher").
			WithCode(prerror.CodeConfigError).
			WithOperation("config.FileWatcher.Stop")
	}
	return nil
}

// startWatching monitors the configuration file and reloads it on change
func (c *Config) startWatching() error {
	fw, err := WatchFile(c.filePath, DefaultDebounce, func() {
		_ = c.reload()
	}, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.watcher = fw
	c.mu.Unlock()
	return nil
}

// reload reloads the configuration from the file and notifies watchers.
// A file that fails to parse leaves the current data in place.
func (c *Config) reload() error {
	c.mu.RLock()
	filePath, format := c.filePath, c.format
	c.mu.RUnlock()

	content, err := ReadFile(filePath)
	if err != nil {
		return err
	}

	newData, err := parseContent(content, format)
	if err != nil {
		return prerror.Wrap(err, "failed to parse config file during reload").
			WithCode(prerror.CodeInvalidConfig).
			WithOperation("config.reload").
			WithDetail("filePath", filePath).
			WithDetail("format", format.String())
	}

	c.mu.Lock()
	oldConfig := &Config{
		data:      deepCopyMap(c.data),
		filePath:  c.filePath,
		format:    c.format,
		envPrefix: c.envPrefix,
	}
	c.data = newData
	newConfig := &Config{
		data:      deepCopyMap(newData),
		filePath:  c.filePath,
		format:    c.format,
		envPrefix: c.envPrefix,
	}
	handlers := append([]ChangeHandler(nil), c.watchers...)
	c.mu.Unlock()

	for _, handler := range handlers {
		if handler != nil {
			handler(oldConfig, newConfig)
		}
	}

	return nil
}

// StopWatching stops file monitoring
func (c *Config) StopWatching() error {
	c.mu.Lock()
	fw := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if fw == nil {
		return nil
	}
	return fw.Stop()
}

// IsWatching returns whether file monitoring is active
func (c *Config) IsWatching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher != nil
}
