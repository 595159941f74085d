package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

const secondsPerDay = 24 * 60 * 60

// Record is the usage bookkeeping kept for one entry id.
type Record struct {
	LastUsed   uint64 `yaml:"last_used"`
	UsageCount uint32 `yaml:"usage_count"`
}

// History maps entry ids to their usage records.
type History map[string]Record

// Store reads and writes the history file. The file is a flat YAML mapping
// of id -> {last_used, usage_count}.
type Store struct {
	Path   string
	Now    func() time.Time
	Logger *slog.Logger
}

// New returns a Store for the history file at path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Path: path, Now: time.Now, Logger: logger}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Load reads the history file. A missing file is a cold start; an unreadable
// or malformed one is logged and treated as empty. When maxAgeDays > 0,
// records last used more than maxAgeDays ago are dropped.
func (s *Store) Load(maxAgeDays int) History {
	history := make(History)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger().Warn("cannot read history file", "path", s.Path, "err", err)
		}
		return history
	}

	if err := yaml.Unmarshal(data, &history); err != nil {
		s.logger().Warn("cannot parse history file", "path", s.Path, "err", err)
		return make(History)
	}
	if history == nil {
		history = make(History)
	}

	if maxAgeDays > 0 {
		var cutoff uint64
		now := s.now().Unix()
		if span := int64(maxAgeDays) * secondsPerDay; now > span {
			cutoff = uint64(now - span)
		}
		for id, rec := range history {
			if rec.LastUsed < cutoff {
				delete(history, id)
			}
		}
	}

	return history
}

// Update records one more use of id at the current time. It only mutates
// history; call Save to persist it.
func (s *Store) Update(history History, id string) {
	rec := history[id]
	rec.UsageCount++
	rec.LastUsed = uint64(s.now().Unix())
	history[id] = rec
}

// Save overwrites the history file with history, creating the containing
// directory if needed. The file is replaced atomically.
func (s *Store) Save(history History) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := renameio.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
