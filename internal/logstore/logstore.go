// ABOUTME: File-backed append-only log store used by the log_* demo methods
// ABOUTME: A mutex serializes append/read/clear so concurrent calls never interleave

package logstore

import (
	"fmt"
	"os"
	"sync"
)

// Store is a single global text stream backed by one file. All operations
// hold the mutex for their full duration so a concurrent Read never observes
// a partial Append.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes one message to the log, followed by a newline.
func (s *Store) Append(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(message + "\n"); err != nil {
		return fmt.Errorf("failed to append to log file: %w", err)
	}
	return nil
}

// Read returns the full log contents. A store that has never been written,
// or was cleared, reports os.ErrNotExist.
func (s *Store) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", os.ErrNotExist
		}
		return "", fmt.Errorf("failed to read log file: %w", err)
	}
	return string(data), nil
}

// Clear truncates the store by removing the backing file, so a following
// Read reports the never-written state.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear log file: %w", err)
	}
	return nil
}
