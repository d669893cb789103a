// Package storage reads and writes the two flat files that back the roster:
// the students JSON document and the one-name-per-line languages list.
// It knows nothing about records; callers hand it bytes and lines.
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// EmptyStudents is written when the students file is first created.
const EmptyStudents = "{\n  \"students\": []\n}\n"

const tempPattern = "*.tmp-*"

type Store struct {
	dir           string
	studentsPath  string
	languagesPath string
}

// New returns a store rooted at dir. Nothing touches the disk until the
// first Ensure or Read call.
func New(dir, studentsFile, languagesFile string) *Store {
	return &Store{
		dir:           dir,
		studentsPath:  filepath.Join(dir, studentsFile),
		languagesPath: filepath.Join(dir, languagesFile),
	}
}

func (s *Store) Dir() string           { return s.dir }
func (s *Store) StudentsPath() string  { return s.studentsPath }
func (s *Store) LanguagesPath() string { return s.languagesPath }

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}
	return nil
}

// EnsureStudentsStore creates an empty students document if the file is
// missing or zero-length. Existing content is never overwritten.
func (s *Store) EnsureStudentsStore() error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	info, err := os.Stat(s.studentsPath)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return writeAtomic(s.studentsPath, []byte(EmptyStudents))
	default:
		return fmt.Errorf("failed to stat students store: %w", err)
	}
}

// EnsureLanguagesStore creates an empty languages file if it is missing.
func (s *Store) EnsureLanguagesStore() error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.languagesPath, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create languages store: %w", err)
	}
	return f.Close()
}

func (s *Store) ReadStudents() ([]byte, error) {
	if err := s.EnsureStudentsStore(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.studentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read students store: %w", err)
	}
	return data, nil
}

// WriteStudents replaces the whole students file.
func (s *Store) WriteStudents(data []byte) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := writeAtomic(s.studentsPath, data); err != nil {
		return fmt.Errorf("failed to write students store: %w", err)
	}
	return nil
}

func (s *Store) ReadLanguageLines() ([]string, error) {
	if err := s.EnsureLanguagesStore(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.languagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read languages store: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan languages store: %w", err)
	}
	return lines, nil
}

// WriteLanguageLines replaces the whole languages file, one entry per line.
func (s *Store) WriteLanguageLines(lines []string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := writeAtomic(s.languagesPath, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to write languages store: %w", err)
	}
	return nil
}

// PruneTemp removes temp files left behind by writes that never reached
// the rename step. It returns the names it removed.
func (s *Store) PruneTemp() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(s.dir), tempPattern)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}
	var removed []string
	for _, name := range matches {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// writeAtomic writes to a sibling temp file and renames it over path, so a
// crash mid-write leaves the previous content in place.
func writeAtomic(path string, data []byte) (err error) {
	tmp := path + ".tmp-" + uuid.NewString()
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
