package state

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// FileName is the state document name inside the deployments directory.
const FileName = "k8s-deployment-state.yaml"

// Store loads and saves the state document.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore creates a store for the state document inside deploymentsDir.
func NewStore(deploymentsDir string, logger zerolog.Logger) *Store {
	return &Store{
		path:   filepath.Join(deploymentsDir, FileName),
		logger: logger,
	}
}

// Path returns the location of the state document.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state document.
//
// A missing document yields an empty File. A document that cannot be parsed
// is also treated as empty; the condition is logged so that genuine
// corruption does not go unnoticed.
func (s *Store) Load() (*File, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	f := NewFile()
	if err := yaml.Unmarshal(data, f); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("state file is malformed, treating as empty")
		return NewFile(), nil
	}
	if f.Deployments == nil {
		f.Deployments = []Record{}
	}

	for _, r := range f.Deployments {
		if !r.Status.Valid() {
			s.logger.Warn().Str("deployment", r.ID).Str("status", string(r.Status)).Msg("unknown status in state file")
		}
	}
	if id := f.ActiveID(); id != "" {
		if _, ok := f.Find(id); !ok {
			s.logger.Warn().Str("deployment", id).Msg("active deployment has no record, resetting")
			f.ResetActive()
		}
	}

	return f, nil
}

// Save rewrites the state document in full.
func (s *Store) Save(f *File) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Update runs one read-modify-write cycle. Nothing is saved if fn fails.
func (s *Store) Update(fn func(f *File) error) error {
	f, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.Save(f)
}
