package report

import (
	"fmt"
	"strings"

	"github.com/jeanpaul/roster/internal/record"
)

// RenderProfile formats a student as a markdown card.
func RenderProfile(s record.Student) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", s.Name)

	b.WriteString("| Field | Value |\n|---|---|\n")
	rows := [][2]string{
		{"Academic Status", s.AcademicStatus},
		{"Employed", yesNo(s.Employed)},
		{"Job Details", s.Job()},
		{"Programming Languages", strings.Join(s.Languages, ", ")},
		{"Databases Known", strings.Join(s.Databases, ", ")},
		{"Preferred Role", s.PreferredRole},
		{"Whitelisted", yesNo(s.Whitelisted)},
		{"Blacklisted", yesNo(s.Blacklisted)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r[0], escapeCell(r[1]))
	}

	b.WriteString("\n## Comments\n\n")
	if len(s.Comments) == 0 {
		b.WriteString("_No comments yet._\n")
		return b.String()
	}
	for _, c := range s.Comments {
		fmt.Fprintf(&b, "- **%s** %s\n", c.Date(), escapeText(c.Text))
	}
	return b.String()
}

// lineBreaks folds free text onto one line so it stays inside its list item
// or table cell.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

var markdownSpecial = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`,
)

func escapeText(s string) string {
	return markdownSpecial.Replace(lineBreaks.Replace(s))
}

func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return escapeText(s)
}
