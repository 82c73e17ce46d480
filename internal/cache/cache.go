package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store is a persistent key -> raw-LRC-text map backed by a single
// human-readable JSON file. The whole map lives in memory; every Put
// rewrites the file so a crash never loses more than the write in
// flight. It memoizes fetch results only - callers re-validate entries
// against the track duration before trusting them.
type Store struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// Key normalizes a (title, artist) pair into the on-disk cache key.
func Key(title, artist string) string {
	return strings.ToLower(title + " | " + artist)
}

// Open loads the cache file at path. A missing or corrupt file is not
// fatal: the store starts empty and the problem is logged.
func Open(path string) *Store {
	s := &Store{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).WithField("path", path).Warn("could not read lyrics cache")
		}
		return s
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.WithError(err).WithField("path", path).Warn("lyrics cache corrupt, starting empty")
		s.entries = make(map[string]string)
		return s
	}

	log.WithField("entries", len(s.entries)).Debug("lyrics cache loaded")
	return s
}

func (s *Store) Get(title, artist string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lrc, ok := s.entries[Key(title, artist)]
	return lrc, ok
}

// Put stores the lyrics and immediately flushes the whole map to disk.
func (s *Store) Put(title, artist, lrc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[Key(title, artist)] = lrc
	return s.flushLocked()
}

func (s *Store) Delete(title, artist string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(title, artist)
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.flushLocked()
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]string)
	return s.flushLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, s.path)
}
