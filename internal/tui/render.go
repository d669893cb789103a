// Package tui holds the terminal styling shared by the roster commands.
package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders md for the terminal. When the renderer cannot be built
// or fails, md is returned unchanged.
func Markdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Diff colours a unified diff line by line.
func Diff(unified string) string {
	if unified == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(unified, "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = DetailStyle.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = HunkStyle.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = AddedStyle.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = RemovedStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Bullets renders items as an indented list, or none when empty.
func Bullets(items []string, none string) string {
	if len(items) == 0 {
		return HelpStyle.Render("  "+none) + "\n"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString("  " + NameStyle.Render(it) + "\n")
	}
	return b.String()
}
