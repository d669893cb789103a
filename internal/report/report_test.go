package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/roster/internal/record"
)

func sample() []record.Student {
	return []record.Student{
		{
			Name: "Ada Lovelace", AcademicStatus: "Senior", Employed: true,
			JobDetails: record.StringPtr("Engineer"), Languages: []string{"Python", "Go"},
			Databases: []string{"Postgres"}, PreferredRole: "Back-end",
			Comments: []record.Comment{record.CommentFromStore("2024-05-01", "great interview")},
		},
		{Name: "Alan Turing", AcademicStatus: "Graduate", Whitelisted: true},
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sample()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StudentsSheet, CommentsSheet}, f.GetSheetList())

	rows, err := f.GetRows(StudentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, []string{"Ada Lovelace", "Senior", "Yes", "Engineer", "Python, Go", "Postgres", "Back-end", "No", "No", "1"}, rows[1])
	assert.Equal(t, "Alan Turing", rows[2][0])
	assert.Equal(t, "Yes", rows[2][7])

	comments, err := f.GetRows(CommentsSheet)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, []string{"Ada Lovelace", "2024-05-01", "great interview"}, comments[1])
}

func TestWriteWorkbook_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteWorkbook(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(StudentsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRenderProfile(t *testing.T) {
	students := sample()

	md := RenderProfile(students[0])
	assert.Contains(t, md, "# Ada Lovelace")
	assert.Contains(t, md, "| Programming Languages | Python, Go |")
	assert.Contains(t, md, "- **2024-05-01** great interview")

	md = RenderProfile(students[1])
	assert.Contains(t, md, "| Job Details | - |")
	assert.Contains(t, md, "_No comments yet._")
}

func TestRenderProfile_EscapesFreeText(t *testing.T) {
	s := record.Student{
		Name:       "Grace Hopper",
		JobDetails: record.StringPtr("Navy | COBOL"),
		Comments: []record.Comment{
			record.CommentFromStore("2024-06-01", "first line\n# not a heading\r\n*bold*"),
		},
	}

	md := RenderProfile(s)
	assert.Contains(t, md, `- **2024-06-01** first line \# not a heading \*bold\*`+"\n")
	assert.Contains(t, md, `| Job Details | Navy \| COBOL |`)
	assert.NotContains(t, md, "\n# not a heading")
}

