package repository

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/jeanpaul/roster/internal/record"
	"github.com/jeanpaul/roster/internal/storage"
)

// Languages is the controlled vocabulary of programming language names: a
// case-insensitive set kept in alphabetical order.
type Languages struct {
	mu     sync.Mutex
	store  *storage.Store
	log    *slog.Logger
	strict bool
	names  []string
}

func NewLanguages(store *storage.Store, opts Options) *Languages {
	r := &Languages{
		store:  store,
		log:    opts.logger().With(slog.String("component", "languages")),
		strict: opts.StrictLoad,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.refresh("languages.New"); err != nil {
		r.log.Warn("languages store unreadable, treating as empty", slog.String("error", err.Error()))
	}
	return r
}

// GetAll reloads the store and returns the sorted names.
func (r *Languages) GetAll() ([]string, error) {
	const op = "languages.GetAll"
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(op); err != nil {
		if r.strict {
			return nil, err
		}
		r.log.Warn("languages store unreadable, treating as empty", slog.String("error", err.Error()))
	}
	return slices.Clone(r.names), nil
}

// Add inserts name unless a case-insensitive match already exists, in
// which case it returns false and leaves the store untouched.
func (r *Languages) Add(name string) (bool, error) {
	const op = "languages.Add"
	name = strings.TrimSpace(name)
	if name == "" {
		return false, invalidArgument(op, "language cannot be empty")
	}
	if strings.ContainsAny(name, "\r\n") {
		return false, invalidArgument(op, "language cannot span lines")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(op); err != nil {
		return false, err
	}
	if r.contains(name) {
		return false, nil
	}

	r.names = append(r.names, name)
	slices.SortFunc(r.names, record.CompareFold)
	if err := r.store.WriteLanguageLines(record.EncodeLanguages(r.names)); err != nil {
		return false, storageFailure(op, "failed to save languages", err)
	}
	r.log.Info("language added", slog.String("name", name))
	return true, nil
}

// Contains checks the current snapshot without reloading.
func (r *Languages) Contains(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contains(name)
}

func (r *Languages) contains(name string) bool {
	return slices.ContainsFunc(r.names, func(n string) bool {
		return strings.EqualFold(n, name)
	})
}

// refresh loads the file, dropping blank lines and case-insensitive
// duplicates (first spelling wins).
func (r *Languages) refresh(op string) error {
	lines, err := r.store.ReadLanguageLines()
	if err != nil {
		r.names = nil
		return storageFailure(op, "failed to load languages", err)
	}
	names := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, n := range record.DecodeLanguages(lines) {
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, n)
	}
	slices.SortFunc(names, record.CompareFold)
	r.names = names
	return nil
}
