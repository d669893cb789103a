package record

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar-date format comments are stored with.
const DateLayout = "2006-01-02"

// Comment is a dated note attached to a single student. A zero CreatedAt
// is not a stored state: encoding stamps it with today's date.
type Comment struct {
	Text      string
	CreatedAt time.Time
}

// NewComment returns a comment stamped with today's date.
func NewComment(text string) Comment {
	return Comment{Text: text, CreatedAt: today()}
}

// CommentFromStore rebuilds a comment from its stored date string.
// An unparseable date falls back to today rather than dropping the comment.
func CommentFromStore(date, text string) Comment {
	c := NewComment(text)
	if t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), time.Local); err == nil {
		c.CreatedAt = t
	}
	return c
}

// Date returns the stored form of the creation date, or "" when unset.
func (c Comment) Date() string {
	if c.CreatedAt.IsZero() {
		return ""
	}
	return c.CreatedAt.Format(DateLayout)
}

// Student is one personnel record. Nil slices and a nil JobDetails mean
// "absent" and are kept distinct from empty values on disk.
type Student struct {
	Name           string
	AcademicStatus string
	Employed       bool
	JobDetails     *string
	Languages      []string
	Databases      []string
	PreferredRole  string
	Whitelisted    bool
	Blacklisted    bool
	Comments       []Comment
}

// HasName reports whether the student's name matches name, ignoring case
// and surrounding whitespace.
func (s Student) HasName(name string) bool {
	return SameName(s.Name, name)
}

// AddComment appends a comment dated today.
func (s *Student) AddComment(text string) {
	s.Comments = append(s.Comments, NewComment(text))
}

// Job returns the job details or "" when absent.
func (s Student) Job() string {
	if s.JobDetails == nil {
		return ""
	}
	return *s.JobDetails
}

// Clone returns a deep copy, preserving nil-ness of optional fields.
func (s Student) Clone() Student {
	out := s
	if s.JobDetails != nil {
		job := *s.JobDetails
		out.JobDetails = &job
	}
	out.Languages = slices.Clone(s.Languages)
	out.Databases = slices.Clone(s.Databases)
	out.Comments = slices.Clone(s.Comments)
	return out
}

// SameName compares two names the way student identity is defined.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// CompareFold orders strings case-insensitively, breaking ties by byte order
// so sorts are deterministic.
func CompareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortByName sorts students in place by name, case-insensitively.
func SortByName(students []Student) {
	slices.SortStableFunc(students, func(a, b Student) int {
		return CompareFold(a.Name, b.Name)
	})
}

// StringPtr is a convenience for building optional job details.
func StringPtr(s string) *string { return &s }

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
