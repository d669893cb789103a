// Package profile holds the application rules that sit above the
// repositories: profile validation, building records from form input, and
// the comment log.
package profile

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jeanpaul/roster/internal/record"
	"github.com/jeanpaul/roster/internal/repository"
)

var (
	AcademicStatuses = []string{"Freshman", "Sophomore", "Junior", "Senior", "Graduate"}
	Databases        = []string{"MySQL", "Postgres", "MongoDB"}
	Roles            = []string{"Back-end", "Full-stack", "Front-End", "Data", "Other"}
)

// Employment is the employed/unemployed choice; the zero value means the
// user picked neither.
type Employment int

const (
	EmploymentUnset Employment = iota
	Employed
	Unemployed
)

// Draft is a profile as entered by a user, before it becomes a record.
type Draft struct {
	Name           string
	AcademicStatus string
	Employment     Employment
	JobDetails     string
	Languages      []string
	Databases      []string
	PreferredRole  string
	Comment        string
	Whitelisted    bool
	Blacklisted    bool
}

// ValidationError reports the first rule a draft breaks.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return repository.ErrInvalidArgument }

type Service struct {
	students  *repository.Students
	languages *repository.Languages
	log       *slog.Logger
}

func NewService(students *repository.Students, languages *repository.Languages, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		students:  students,
		languages: languages,
		log:       logger.With(slog.String("component", "profile")),
	}
}

// Validate checks d. When editing, originalName is the name the profile is
// stored under and is excluded from the uniqueness check.
func (s *Service) Validate(d Draft, originalName string) error {
	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		return &ValidationError{"Please submit a valid name."}
	case len(strings.Fields(name)) < 2:
		return &ValidationError{"Please enter a first and last name."}
	}

	all, err := s.students.GetAll()
	if err != nil {
		return err
	}
	for _, st := range all {
		if originalName != "" && st.HasName(originalName) {
			continue
		}
		if st.HasName(name) {
			return &ValidationError{"A student with this name already exists."}
		}
	}

	switch {
	case strings.TrimSpace(d.AcademicStatus) == "":
		return &ValidationError{"Please select an academic status."}
	case d.Employment == EmploymentUnset:
		return &ValidationError{"Please select Employed or Unemployed."}
	case d.Employment == Employed && strings.TrimSpace(d.JobDetails) == "":
		return &ValidationError{"Please enter job details for employed students."}
	case len(d.Languages) == 0:
		return &ValidationError{"Please select at least one programming language option."}
	case len(d.Databases) == 0:
		return &ValidationError{"Please select at least one known database."}
	case strings.TrimSpace(d.PreferredRole) == "":
		return &ValidationError{"Please select a preferred role."}
	}
	return nil
}

// Create validates d and stores it as a new student, with d.Comment as the
// first log entry when given.
func (s *Service) Create(d Draft) (record.Student, error) {
	if err := s.Validate(d, ""); err != nil {
		return record.Student{}, err
	}
	st := record.Student{}
	apply(&st, d)
	if text := strings.TrimSpace(d.Comment); text != "" {
		st.AddComment(text)
	}
	if err := s.students.Add(&st); err != nil {
		return record.Student{}, err
	}
	return st, nil
}

// Update overwrites the profile fields of the student stored as
// originalName, keeping its comment log. It returns the record before and
// after the change.
func (s *Service) Update(originalName string, d Draft) (before, after record.Student, err error) {
	if err := s.Validate(d, originalName); err != nil {
		return before, after, err
	}
	before, err = s.find("profile.Update", originalName)
	if err != nil {
		return before, after, err
	}
	after = before.Clone()
	apply(&after, d)
	if err := s.students.UpdateByName(originalName, &after); err != nil {
		return before, after, err
	}
	return before, after, nil
}

// AddComment appends a comment dated today to the named student.
func (s *Service) AddComment(name, text string) error {
	text = strings.TrimSpace(text)
	if strings.TrimSpace(name) == "" || text == "" {
		return &repository.Error{
			Op:      "profile.AddComment",
			Kind:    repository.ErrInvalidArgument,
			Message: "student name and comment text are required",
		}
	}
	st, err := s.find("profile.AddComment", name)
	if err != nil {
		return err
	}
	st.AddComment(text)
	if err := s.students.UpdateByName(name, &st); err != nil {
		return err
	}
	s.log.Info("comment added", slog.String("name", st.Name))
	return nil
}

// Comments returns the named student's comment log, oldest first.
func (s *Service) Comments(name string) ([]record.Comment, error) {
	st, err := s.find("profile.Comments", name)
	if err != nil {
		return nil, err
	}
	return st.Comments, nil
}

// UnknownLanguages lists the draft's languages missing from the vocabulary.
func (s *Service) UnknownLanguages(d Draft) []string {
	var unknown []string
	for _, l := range d.Languages {
		if !s.languages.Contains(l) {
			unknown = append(unknown, l)
		}
	}
	return unknown
}

func (s *Service) find(op, name string) (record.Student, error) {
	st, ok, err := s.students.FindByName(name)
	if err != nil {
		return record.Student{}, err
	}
	if !ok {
		return record.Student{}, &repository.Error{
			Op:      op,
			Kind:    repository.ErrNotFound,
			Message: fmt.Sprintf("student '%s' not found", strings.TrimSpace(name)),
		}
	}
	return st, nil
}

func apply(st *record.Student, d Draft) {
	st.Name = strings.TrimSpace(d.Name)
	st.AcademicStatus = strings.TrimSpace(d.AcademicStatus)
	st.Employed = d.Employment == Employed
	st.JobDetails = nil
	if job := strings.TrimSpace(d.JobDetails); job != "" {
		st.JobDetails = &job
	}
	st.Languages = append([]string(nil), d.Languages...)
	st.Databases = append([]string(nil), d.Databases...)
	st.PreferredRole = strings.TrimSpace(d.PreferredRole)
	st.Whitelisted = d.Whitelisted
	st.Blacklisted = d.Blacklisted
}
