// Package fs implements core.Storage on the local filesystem.
//
// Each key is stored in its own file under the storage directory. Writes go
// through a temp file and a rename so readers never observe a partial blob.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/dreamlog/pkg/core"
)

// DefaultExtension is appended to escaped keys to build file names.
const DefaultExtension = ".json"

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path      string
	Extension string // e.g. ".json"
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger

	// ErrorHandler receives runtime watcher errors that would otherwise only be logged.
	ErrorHandler func(error)
	// Debounce coalesces bursts of events for the same key. Zero means 50ms.
	Debounce time.Duration
}

// Storage implements core.Storage using one file per key.
type Storage struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// NewStorage creates a new filesystem-backed storage.
func NewStorage(config Config) *Storage {
	if config.Extension == "" {
		config.Extension = DefaultExtension
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Storage{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the storage directory exists.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat storage path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// Get reads the file holding key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.fileFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set replaces the file holding key atomically.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	path := s.fileFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := replaceBlob(path, value, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	s.config.Logger.Debug("key written", "key", key, "bytes", len(value))
	return nil
}

// Remove deletes the file holding key.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	if err := os.Remove(s.fileFor(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// FileName returns the file name (relative to Path) used for key.
func (s *Storage) FileName(key string) string {
	return url.PathEscape(key) + s.config.Extension
}

func (s *Storage) fileFor(key string) string {
	return filepath.Join(s.Path, s.FileName(key))
}

// keyFor maps a file name back to its key. ok is false for files the storage does not own.
func (s *Storage) keyFor(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TempFilePrefix) || !strings.HasSuffix(base, s.config.Extension) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(base, s.config.Extension))
	if err != nil {
		return "", false
	}
	return key, true
}

var _ core.Storage = (*Storage)(nil)
