// Package resumestore keeps extracted resume text on local disk so a run
// can be inspected or replayed without re-downloading the originals.
package resumestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("resume store dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resume dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes resume text under name (a bare filename, .txt appended when
// missing) and returns the full path.
func (s *Store) Save(name, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("resume content cannot be empty")
	}
	cleaned, err := s.filename(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, cleaned)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("error saving resume: %w", err)
	}
	return path, nil
}

// List returns the saved resume filenames, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("error listing resumes: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load reads a saved resume back as plain text.
func (s *Store) Load(name string) (string, error) {
	cleaned, err := s.filename(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, cleaned))
	if err != nil {
		return "", fmt.Errorf("error reading resume: %w", err)
	}
	return string(data), nil
}

func (s *Store) filename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("resume name cannot be empty")
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("resume name must not contain path separators: %q", name)
	}
	if !strings.HasSuffix(name, ".txt") {
		name += ".txt"
	}
	return name, nil
}
