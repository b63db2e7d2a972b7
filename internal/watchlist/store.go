// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package watchlist persists the ordered set of cities shown in the comparison view.
package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/wneessen/weatherdash/internal/logger"
)

const (
	FileName = "watchlist.json"

	dirPerm  = 0o755
	filePerm = 0o644
)

var ErrEmptyCity = errors.New("city name must not be empty")

// Store is a file-backed watchlist. Every mutation is written to disk before it returns.
type Store struct {
	mu     sync.RWMutex
	path   string
	cities []string
	log    *logger.Logger
}

// New returns a Store that keeps its file in dir. The directory is created if it does
// not exist. The returned Store is empty until Load is called.
func New(dir string, log *logger.Logger) (*Store, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create watchlist directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, FileName), log: log}, nil
}

// Path returns the location of the watchlist file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the watchlist from disk. A missing or malformed file yields an empty list.
// Only a file that exists but cannot be read is reported as error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cities = nil
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read watchlist file: %w", err)
	}

	var cities []string
	if err = json.Unmarshal(data, &cities); err != nil {
		s.log.Debug("discarding malformed watchlist file", slog.String("path", s.path), logger.Err(err))
		return nil
	}
	for _, city := range cities {
		city = strings.TrimSpace(city)
		if city == "" || slices.Contains(s.cities, city) {
			continue
		}
		s.cities = append(s.cities, city)
	}
	return nil
}

// Save writes the full watchlist to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save()
}

// Add appends city if it is not on the list yet and persists the list. It reports whether
// the list changed.
func (s *Store) Add(city string) (bool, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return false, ErrEmptyCity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.cities, city) {
		return false, nil
	}
	s.cities = append(s.cities, city)
	if err := s.save(); err != nil {
		s.cities = s.cities[:len(s.cities)-1]
		return false, err
	}
	return true, nil
}

// Remove deletes city from the list if present and persists the list. It reports whether
// the list changed.
func (s *Store) Remove(city string) (bool, error) {
	city = strings.TrimSpace(city)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.Index(s.cities, city)
	if idx < 0 {
		return false, nil
	}
	prev := slices.Clone(s.cities)
	s.cities = slices.Delete(s.cities, idx, idx+1)
	if err := s.save(); err != nil {
		s.cities = prev
		return false, err
	}
	return true, nil
}

// List returns a copy of the watchlist in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cities)
}

// Contains reports whether city is on the watchlist.
func (s *Store) Contains(city string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.cities, strings.TrimSpace(city))
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cities)
}

// save writes the list to a temp file next to the watchlist file and renames it into
// place. The caller must hold the lock.
func (s *Store) save() error {
	cities := s.cities
	if cities == nil {
		cities = []string{}
	}
	data, err := json.MarshalIndent(cities, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary watchlist file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary watchlist file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temporary watchlist file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary watchlist file: %w", err)
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("failed to set watchlist file permissions: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace watchlist file: %w", err)
	}
	return nil
}
