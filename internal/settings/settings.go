package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Store is a JSON-file-backed key-value settings store with change
// notification. External edits to the file (a settings panel, a text
// editor) are picked up through fsnotify and fanned out to subscribers.
type Store struct {
	path string

	mu     sync.RWMutex
	values map[string]any
	subs   []func()

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]any),
		done:   make(chan struct{}),
	}

	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		log.WithError(err).WithField("path", s.path).Warn("settings file corrupt, keeping previous values")
		return nil
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *Store) GetBool(key string, fallback bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return fallback
}

func (s *Store) GetString(key string, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Update merges the given values into the store and persists the result.
// Subscribers are notified synchronously.
func (s *Store) Update(values map[string]any) error {
	s.mu.Lock()
	for k, v := range values {
		s.values[k] = v
	}
	err := s.flushLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Subscribe registers a callback invoked after any settings change,
// whether through Update or an external file edit.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

// Watch starts monitoring the settings file for external changes.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return err
	}
	// watch the directory: editors replace files rather than writing
	// them in place
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	s.watcher = watcher
	go s.watchLoop()
	return nil
}

func (s *Store) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				log.WithError(err).Warn("settings reload failed")
				continue
			}
			s.notify()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("settings watcher error")

		case <-s.done:
			return
		}
	}
}

func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.watcher != nil {
			_ = s.watcher.Close()
		}
	})
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}
