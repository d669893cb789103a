// Package search implements linear, case-insensitive matching over the
// whole student collection.
package search

import (
	"fmt"
	"strings"

	"github.com/jeanpaul/roster/internal/record"
)

// Field names a searchable student attribute.
type Field int

const (
	FieldName Field = iota
	FieldAcademicStatus
	FieldJobDetails
	FieldPreferredRole
	FieldLanguages
	FieldDatabases
)

var fieldNames = [...]string{
	FieldName:           "name",
	FieldAcademicStatus: "status",
	FieldJobDetails:     "job",
	FieldPreferredRole:  "role",
	FieldLanguages:      "language",
	FieldDatabases:      "database",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField maps a field name back to its Field.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown search field %q", name)
}

// values extracts a field's values from a student. Absent values yield nil.
var values = [...]func(record.Student) []string{
	FieldName:           func(s record.Student) []string { return []string{s.Name} },
	FieldAcademicStatus: func(s record.Student) []string { return []string{s.AcademicStatus} },
	FieldJobDetails: func(s record.Student) []string {
		if s.JobDetails == nil {
			return nil
		}
		return []string{*s.JobDetails}
	},
	FieldPreferredRole: func(s record.Student) []string { return []string{s.PreferredRole} },
	FieldLanguages:     func(s record.Student) []string { return s.Languages },
	FieldDatabases:     func(s record.Student) []string { return s.Databases },
}

// keywords are the derived boolean attributes a global search term can hit.
// The term matches when the keyword contains it, so "emp" finds employed
// students.
var keywords = []struct {
	word string
	test func(record.Student) bool
}{
	{"employed", func(s record.Student) bool { return s.Employed }},
	{"unemployed", func(s record.Student) bool { return !s.Employed }},
	{"whitelist", func(s record.Student) bool { return s.Whitelisted }},
	{"blacklist", func(s record.Student) bool { return s.Blacklisted }},
}

// Source supplies the collection to search, in its default order.
type Source interface {
	GetAll() ([]record.Student, error)
}

type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// GlobalSearch returns the names of students matching term. A blank term
// returns every name.
func (e *Engine) GlobalSearch(term string) ([]string, error) {
	students, err := e.Search(term)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(students))
	for _, s := range students {
		names = append(names, s.Name)
	}
	return names, nil
}

// Search is GlobalSearch returning whole records.
func (e *Engine) Search(term string) ([]record.Student, error) {
	students, err := e.src.GetAll()
	if err != nil {
		return nil, err
	}
	term = normalize(term)
	if term == "" {
		return students, nil
	}
	out := make([]record.Student, 0, len(students))
	for _, s := range students {
		if Match(s, term) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Match reports whether any attribute, list entry or derived keyword of s
// matches term.
func Match(s record.Student, term string) bool {
	term = normalize(term)
	if term == "" {
		return true
	}
	for f := range values {
		if anyContains(values[f](s), term) {
			return true
		}
	}
	for _, k := range keywords {
		if strings.Contains(k.word, term) && k.test(s) {
			return true
		}
	}
	return false
}

// Criteria narrows a collection field by field. Every set criterion must
// hold. Employed matches exactly; Whitelisted and Blacklisted only filter
// when true.
type Criteria struct {
	Terms       map[Field]string
	Employed    *bool
	Whitelisted *bool
	Blacklisted *bool
}

func (c Criteria) matches(s record.Student) bool {
	for f, term := range c.Terms {
		term = normalize(term)
		if term == "" {
			continue
		}
		if f < 0 || int(f) >= len(values) || !anyContains(values[f](s), term) {
			return false
		}
	}
	if c.Employed != nil && s.Employed != *c.Employed {
		return false
	}
	if c.Whitelisted != nil && *c.Whitelisted && !s.Whitelisted {
		return false
	}
	if c.Blacklisted != nil && *c.Blacklisted && !s.Blacklisted {
		return false
	}
	return true
}

// Filter returns the students satisfying every set criterion, in the
// source's order.
func (e *Engine) Filter(c Criteria) ([]record.Student, error) {
	students, err := e.src.GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]record.Student, 0, len(students))
	for _, s := range students {
		if c.matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func anyContains(vals []string, term string) bool {
	for _, v := range vals {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
