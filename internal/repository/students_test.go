package repository

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/roster/internal/record"
	"github.com/jeanpaul/roster/internal/storage"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(t.TempDir(), "students.json", "languages.txt")
}

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func ada() *record.Student {
	return &record.Student{
		Name:           "Ada Lovelace",
		AcademicStatus: "Senior",
		Employed:       true,
		JobDetails:     record.StringPtr("Engineer"),
		Languages:      []string{"Python"},
		Databases:      []string{"Postgres"},
		PreferredRole:  "Back-end",
		Comments:       []record.Comment{},
	}
}

func names(students []record.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Name)
	}
	return out
}

func TestStudents_AddThenGetAll(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	require.NoError(t, repo.Add(ada()))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada Lovelace"}, names(all))
	assert.Equal(t, "Engineer", all[0].Job())
}

func TestStudents_AddNil(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())

	assert.ErrorIs(t, repo.Add(nil), ErrInvalidArgument)
	assert.ErrorIs(t, repo.Add(&record.Student{Name: "  "}), ErrInvalidArgument)
}

func TestStudents_AddRejectsDuplicateName(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	require.NoError(t, repo.Add(ada()))

	dup := ada()
	dup.Name = "  ada LOVELACE "
	err := repo.Add(dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStudents_GetAllSortedCaseInsensitive(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	for _, n := range []string{"zoe Quinn", "Bob Marley", "alice Cooper"} {
		require.NoError(t, repo.Add(&record.Student{Name: n}))
	}

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice Cooper", "Bob Marley", "zoe Quinn"}, names(all))
}

func TestStudents_GetAllReflectsExternalEdits(t *testing.T) {
	store := newStore(t)
	repo := NewStudents(store, quietOptions())
	require.NoError(t, repo.Add(ada()))

	require.NoError(t, store.WriteStudents([]byte(`{"students":[{"name":"Alan Turing"}]}`)))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alan Turing"}, names(all))
}

func TestStudents_DeleteIsIdempotent(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	require.NoError(t, repo.Add(ada()))
	require.NoError(t, repo.Add(&record.Student{Name: "Alan Turing"}))

	require.NoError(t, repo.DeleteByName("ADA lovelace"))
	first, err := repo.GetAll()
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByName("ADA lovelace"))
	second, err := repo.GetAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Alan Turing"}, names(first))
	assert.Equal(t, first, second)
}

func TestStudents_DeleteEmptyName(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	assert.ErrorIs(t, repo.DeleteByName("   "), ErrInvalidArgument)
}

func TestStudents_FindByName(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	require.NoError(t, repo.Add(ada()))

	s, ok, err := repo.FindByName(" ada lovelace")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", s.Name)

	_, ok, err = repo.FindByName("Grace Hopper")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.FindByName("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStudents_FindReturnsCopy(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	require.NoError(t, repo.Add(ada()))

	s, _, err := repo.FindByName("Ada Lovelace")
	require.NoError(t, err)
	s.Languages[0] = "COBOL"

	again, _, err := repo.FindByName("Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, again.Languages)
}

func TestStudents_UpdateByName(t *testing.T) {
	store := newStore(t)
	repo := NewStudents(store, quietOptions())
	require.NoError(t, repo.Add(&record.Student{Name: "Zed Alpha"}))
	require.NoError(t, repo.Add(ada()))

	updated := ada()
	updated.Name = "Ada King"
	updated.Employed = false
	updated.JobDetails = nil
	require.NoError(t, repo.UpdateByName("ada lovelace", updated))

	s, ok, err := repo.FindByName("Ada King")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, s.Employed)
	assert.Nil(t, s.JobDetails)

	// Position in the stored collection is preserved.
	data, err := store.ReadStudents()
	require.NoError(t, err)
	stored, err := record.DecodeStore(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zed Alpha", "Ada King"}, names(stored))
}

func TestStudents_UpdateErrors(t *testing.T) {
	repo := NewStudents(newStore(t), quietOptions())
	require.NoError(t, repo.Add(ada()))
	require.NoError(t, repo.Add(&record.Student{Name: "Alan Turing"}))

	assert.ErrorIs(t, repo.UpdateByName("", ada()), ErrInvalidArgument)
	assert.ErrorIs(t, repo.UpdateByName("Ada Lovelace", nil), ErrInvalidArgument)
	assert.ErrorIs(t, repo.UpdateByName("Grace Hopper", ada()), ErrNotFound)

	clash := ada()
	clash.Name = "alan turing"
	assert.ErrorIs(t, repo.UpdateByName("Ada Lovelace", clash), ErrAlreadyExists)

	// Changing only the case of one's own name is allowed.
	recased := ada()
	recased.Name = "ADA LOVELACE"
	assert.NoError(t, repo.UpdateByName("Ada Lovelace", recased))
}

func TestStudents_CorruptStoreLenient(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.StudentsPath(), []byte(`{"students": [`), 0644))

	var logs bytes.Buffer
	repo := NewStudents(store, Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Contains(t, logs.String(), "students store unreadable")

	// Writes refuse to overwrite a store they could not read.
	err = repo.Add(ada())
	assert.ErrorIs(t, err, ErrStorage)
	data, err := os.ReadFile(store.StudentsPath())
	require.NoError(t, err)
	assert.Equal(t, `{"students": [`, string(data))
}

func TestStudents_NamelessRecordIsNotLoaded(t *testing.T) {
	store := newStore(t)
	content := `{"students": [{"name": null, "academic_status": "Senior"}]}`
	require.NoError(t, os.WriteFile(store.StudentsPath(), []byte(content), 0644))

	repo := NewStudents(store, quietOptions())
	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, repo.Add(ada()), ErrStorage)
	data, err := os.ReadFile(store.StudentsPath())
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestStudents_CorruptStoreStrict(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.StudentsPath(), []byte(`{"students": {}}`), 0644))

	opts := quietOptions()
	opts.StrictLoad = true
	repo := NewStudents(store, opts)

	_, err := repo.GetAll()
	assert.ErrorIs(t, err, ErrStorage)

	_, _, err = repo.FindByName("Ada Lovelace")
	assert.ErrorIs(t, err, ErrStorage)
}
