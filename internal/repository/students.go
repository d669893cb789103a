// Package repository implements the student and language collections on top
// of the flat-file store. Every operation reloads the file first, and every
// write persists the whole collection and reloads again, so the file stays
// the source of truth.
package repository

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/jeanpaul/roster/internal/record"
	"github.com/jeanpaul/roster/internal/storage"
)

// Options tunes both repositories.
type Options struct {
	Logger *slog.Logger
	// StrictLoad makes reads fail when the store cannot be parsed. When
	// false, an unreadable store is logged and read as empty.
	StrictLoad bool
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Students is the student collection. The snapshot is private; callers
// only ever receive copies.
type Students struct {
	mu       sync.Mutex
	store    *storage.Store
	log      *slog.Logger
	strict   bool
	students []record.Student
}

func NewStudents(store *storage.Store, opts Options) *Students {
	r := &Students{
		store:  store,
		log:    opts.logger().With(slog.String("component", "students")),
		strict: opts.StrictLoad,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.reloadForRead("students.New")
	return r
}

// GetAll returns every student sorted by name, case-insensitively.
func (r *Students) GetAll() ([]record.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.reloadForRead("students.GetAll"); err != nil {
		return nil, err
	}
	out := r.snapshot()
	record.SortByName(out)
	return out, nil
}

// Add appends a new student and persists the collection. Names are unique
// ignoring case and surrounding whitespace.
func (r *Students) Add(s *record.Student) error {
	const op = "students.Add"
	if s == nil {
		return invalidArgument(op, "student cannot be nil")
	}
	if strings.TrimSpace(s.Name) == "" {
		return invalidArgument(op, "student name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(op); err != nil {
		return err
	}
	if r.indexOf(s.Name) >= 0 {
		return alreadyExists(op, "student '"+strings.TrimSpace(s.Name)+"' already exists")
	}

	r.students = append(r.students, s.Clone())
	if err := r.persist(op); err != nil {
		return err
	}
	r.log.Info("student added", slog.String("name", s.Name))
	return r.reloadForRead(op)
}

// DeleteByName removes every student matching name. Deleting a name that
// is not present is a no-op.
func (r *Students) DeleteByName(name string) error {
	const op = "students.DeleteByName"
	if strings.TrimSpace(name) == "" {
		return invalidArgument(op, "student name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(op); err != nil {
		return err
	}
	before := len(r.students)
	kept := r.students[:0]
	for _, s := range r.students {
		if !s.HasName(name) {
			kept = append(kept, s)
		}
	}
	r.students = kept

	if err := r.persist(op); err != nil {
		return err
	}
	if removed := before - len(kept); removed > 0 {
		r.log.Info("student deleted", slog.String("name", name), slog.Int("removed", removed))
	}
	return r.reloadForRead(op)
}

// FindByName returns the first student matching name. A blank name is
// never found and does not touch storage.
func (r *Students) FindByName(name string) (record.Student, bool, error) {
	if strings.TrimSpace(name) == "" {
		return record.Student{}, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.reloadForRead("students.FindByName"); err != nil {
		return record.Student{}, false, err
	}
	if i := r.indexOf(name); i >= 0 {
		return r.students[i].Clone(), true, nil
	}
	return record.Student{}, false, nil
}

// UpdateByName replaces the student currently named originalName, keeping
// its position in the stored collection.
func (r *Students) UpdateByName(originalName string, updated *record.Student) error {
	const op = "students.UpdateByName"
	if strings.TrimSpace(originalName) == "" {
		return invalidArgument(op, "original name cannot be empty")
	}
	if updated == nil {
		return invalidArgument(op, "updated student cannot be nil")
	}
	if strings.TrimSpace(updated.Name) == "" {
		return invalidArgument(op, "student name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(op); err != nil {
		return err
	}
	i := r.indexOf(originalName)
	if i < 0 {
		return notFound(op, "student '"+strings.TrimSpace(originalName)+"' not found")
	}
	for j, s := range r.students {
		if j != i && s.HasName(updated.Name) {
			return alreadyExists(op, "student '"+strings.TrimSpace(updated.Name)+"' already exists")
		}
	}

	r.students[i] = updated.Clone()
	if err := r.persist(op); err != nil {
		return err
	}
	r.log.Info("student updated", slog.String("name", originalName), slog.String("new_name", updated.Name))
	return r.reloadForRead(op)
}

func (r *Students) indexOf(name string) int {
	for i, s := range r.students {
		if s.HasName(name) {
			return i
		}
	}
	return -1
}

func (r *Students) snapshot() []record.Student {
	out := make([]record.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s.Clone())
	}
	return out
}

func (r *Students) load() ([]record.Student, error) {
	data, err := r.store.ReadStudents()
	if err != nil {
		return nil, err
	}
	if err := storage.ValidateStudentsDocument(data); err != nil {
		return nil, err
	}
	return record.DecodeStore(data)
}

// refresh replaces the snapshot with the stored collection. Writes call it
// directly so they never persist on top of a store they could not read.
func (r *Students) refresh(op string) error {
	students, err := r.load()
	if err != nil {
		r.students = nil
		return storageFailure(op, "failed to load students", err)
	}
	r.students = students
	return nil
}

func (r *Students) reloadForRead(op string) error {
	err := r.refresh(op)
	if err != nil && !r.strict {
		r.log.Warn("students store unreadable, treating as empty",
			slog.String("path", r.store.StudentsPath()),
			slog.String("error", err.Error()))
		return nil
	}
	return err
}

func (r *Students) persist(op string) error {
	data, err := record.EncodeStore(r.students)
	if err != nil {
		return storageFailure(op, "failed to encode students", err)
	}
	if err := r.store.WriteStudents(data); err != nil {
		return storageFailure(op, "failed to save students", err)
	}
	r.log.Debug("students saved", slog.Int("count", len(r.students)))
	return nil
}
