package record

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// CommentDocument is the stored shape of a comment.
type CommentDocument struct {
	CreatedAtDate string `json:"created_at_date"`
	CommentText   string `json:"comment_text"`
}

// Document is the stored shape of a student. Every key is always written;
// nil slices encode as null so "absent" survives a round trip.
type Document struct {
	Name           string            `json:"name"`
	AcademicStatus string            `json:"academic_status"`
	Employed       bool              `json:"employed"`
	JobDetails     *string           `json:"job_details"`
	Languages      []string          `json:"programming_languages"`
	Databases      []string          `json:"databases"`
	PreferredRole  string            `json:"preferred_role"`
	Whitelist      bool              `json:"whitelist"`
	Blacklist      bool              `json:"blacklist"`
	Comments       []CommentDocument `json:"comments"`
}

// StoreDocument is the whole students file.
type StoreDocument struct {
	Students []Document `json:"students"`
}

// EncodeStudent maps a student to its stored shape.
func EncodeStudent(s Student) Document {
	d := Document{
		Name:           s.Name,
		AcademicStatus: s.AcademicStatus,
		Employed:       s.Employed,
		PreferredRole:  s.PreferredRole,
		Whitelist:      s.Whitelisted,
		Blacklist:      s.Blacklisted,
	}
	if s.JobDetails != nil {
		d.JobDetails = StringPtr(*s.JobDetails)
	}
	if s.Languages != nil {
		d.Languages = append([]string{}, s.Languages...)
	}
	if s.Databases != nil {
		d.Databases = append([]string{}, s.Databases...)
	}
	if s.Comments != nil {
		d.Comments = make([]CommentDocument, 0, len(s.Comments))
		for _, c := range s.Comments {
			d.Comments = append(d.Comments, CommentDocument{
				CreatedAtDate: storedDate(c),
				CommentText:   c.Text,
			})
		}
	}
	return d
}

func storedDate(c Comment) string {
	if c.CreatedAt.IsZero() {
		return today().Format(DateLayout)
	}
	return c.Date()
}

// DecodeStudent never fails: missing keys decode to zero values and nil
// collections, and bad comment dates fall back to today.
func DecodeStudent(d Document) Student {
	s := Student{
		Name:           d.Name,
		AcademicStatus: d.AcademicStatus,
		Employed:       d.Employed,
		PreferredRole:  d.PreferredRole,
		Whitelisted:    d.Whitelist,
		Blacklisted:    d.Blacklist,
	}
	if d.JobDetails != nil {
		s.JobDetails = StringPtr(*d.JobDetails)
	}
	if d.Languages != nil {
		s.Languages = append([]string{}, d.Languages...)
	}
	if d.Databases != nil {
		s.Databases = append([]string{}, d.Databases...)
	}
	if d.Comments != nil {
		s.Comments = make([]Comment, 0, len(d.Comments))
		for _, c := range d.Comments {
			s.Comments = append(s.Comments, CommentFromStore(c.CreatedAtDate, c.CommentText))
		}
	}
	return s
}

// EncodeStore renders the full collection as an indented students document.
func EncodeStore(students []Student) ([]byte, error) {
	doc := StoreDocument{Students: make([]Document, 0, len(students))}
	for _, s := range students {
		doc.Students = append(doc.Students, EncodeStudent(s))
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal students: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeStore parses a students document. Callers that need shape checks
// should validate the raw bytes first; this only rejects invalid JSON.
func DecodeStore(data []byte) ([]Student, error) {
	var doc StoreDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal students: %w", err)
	}
	students := make([]Student, 0, len(doc.Students))
	for _, d := range doc.Students {
		students = append(students, DecodeStudent(d))
	}
	return students, nil
}

// EncodeLanguages renders one name per line.
func EncodeLanguages(names []string) []string {
	lines := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			lines = append(lines, n)
		}
	}
	return lines
}

// DecodeLanguages trims every line and drops blank ones.
func DecodeLanguages(lines []string) []string {
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			names = append(names, l)
		}
	}
	return names
}

// Diff renders a unified diff between the stored forms of two students.
// It returns "" when they encode identically.
func Diff(before, after Student) string {
	a, err := json.MarshalIndent(EncodeStudent(before), "", "  ")
	if err != nil {
		return ""
	}
	b, err := json.MarshalIndent(EncodeStudent(after), "", "  ")
	if err != nil {
		return ""
	}
	if string(a) == string(b) {
		return ""
	}
	from, to := string(a)+"\n", string(b)+"\n"
	edits := myers.ComputeEdits(span.URIFromPath(before.Name), from, to)
	return fmt.Sprint(gotextdiff.ToUnified(before.Name, after.Name, from, edits))
}
