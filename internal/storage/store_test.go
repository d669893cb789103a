package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data"), "students.json", "languages.txt")
}

func TestEnsureStudentsStore_CreatesEmptyDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureStudentsStore())

	data, err := os.ReadFile(s.StudentsPath())
	require.NoError(t, err)
	assert.Equal(t, EmptyStudents, string(data))
	assert.NoError(t, ValidateStudentsDocument(data))
}

func TestEnsureStudentsStore_KeepsExistingContent(t *testing.T) {
	s := newTestStore(t)
	content := []byte(`{"students":[{"name":"Ada Lovelace"}]}`)
	require.NoError(t, s.WriteStudents(content))

	require.NoError(t, s.EnsureStudentsStore())
	data, err := s.ReadStudents()
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestEnsureStudentsStore_InitializesZeroLengthFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0755))
	require.NoError(t, os.WriteFile(s.StudentsPath(), nil, 0644))

	require.NoError(t, s.EnsureStudentsStore())
	data, err := os.ReadFile(s.StudentsPath())
	require.NoError(t, err)
	assert.Equal(t, EmptyStudents, string(data))
}

func TestLanguageLines_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	lines, err := s.ReadLanguageLines()
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, s.WriteLanguageLines([]string{"Go", "Python"}))
	lines, err = s.ReadLanguageLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Python"}, lines)

	data, err := os.ReadFile(s.LanguagesPath())
	require.NoError(t, err)
	assert.Equal(t, "Go\nPython\n", string(data))
}

func TestReadLanguageLines_StripsCarriageReturns(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0755))
	require.NoError(t, os.WriteFile(s.LanguagesPath(), []byte("Go\r\n\r\nRust\r\n"), 0644))

	lines, err := s.ReadLanguageLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "", "Rust"}, lines)
}

func TestWriteStudents_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteStudents([]byte(EmptyStudents)))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "students.json", entries[0].Name())
}

func TestPruneTemp(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureStudentsStore())
	orphan := s.StudentsPath() + ".tmp-1234"
	require.NoError(t, os.WriteFile(orphan, []byte("{"), 0644))

	removed, err := s.PruneTemp()
	require.NoError(t, err)
	assert.Equal(t, []string{"students.json.tmp-1234"}, removed)
	assert.NoFileExists(t, orphan)
	assert.FileExists(t, s.StudentsPath())
}

func TestPruneTemp_MissingDirectory(t *testing.T) {
	s := newTestStore(t)
	removed, err := s.PruneTemp()
	assert.NoError(t, err)
	assert.Empty(t, removed)
}
