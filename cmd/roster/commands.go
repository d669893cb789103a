package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jeanpaul/roster/internal/profile"
	"github.com/jeanpaul/roster/internal/record"
	"github.com/jeanpaul/roster/internal/repository"
	"github.com/jeanpaul/roster/internal/report"
	"github.com/jeanpaul/roster/internal/search"
	"github.com/jeanpaul/roster/internal/tui"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// splitName joins the positional words before the first flag into a name,
// since the flag package stops at the first non-flag argument.
func splitName(args []string) (string, []string) {
	i := 0
	for i < len(args) && !strings.HasPrefix(args[i], "-") {
		i++
	}
	return strings.TrimSpace(strings.Join(args[:i], " ")), args[i:]
}

func (a *app) cmdList(args []string) error {
	names, err := a.engine.GlobalSearch("")
	if err != nil {
		return err
	}
	a.printNames(names, "no students yet")
	return nil
}

func (a *app) cmdShow(args []string) error {
	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("usage: roster show <name>")
	}
	st, err := a.lookup(name)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, tui.Markdown(report.RenderProfile(st), 80))
	return nil
}

type profileFlags struct {
	fs         *flag.FlagSet
	name       *string
	status     *string
	job        *string
	role       *string
	comment    *string
	languages  *string
	databases  *string
	employed   *bool
	unemployed *bool
	whitelist  *bool
	blacklist  *bool
}

func newProfileFlags(cmd string) *profileFlags {
	fs := newFlagSet(cmd)
	return &profileFlags{
		fs:         fs,
		name:       fs.String("name", "", "First and last name"),
		status:     fs.String("status", "", "Academic status ("+strings.Join(profile.AcademicStatuses, ", ")+")"),
		job:        fs.String("job", "", "Job details, required when employed"),
		role:       fs.String("role", "", "Preferred role ("+strings.Join(profile.Roles, ", ")+")"),
		comment:    fs.String("comment", "", "Initial comment"),
		languages:  fs.String("languages", "", "Comma-separated programming languages"),
		databases:  fs.String("databases", "", "Comma-separated databases ("+strings.Join(profile.Databases, ", ")+")"),
		employed:   fs.Bool("employed", false, "Student is employed"),
		unemployed: fs.Bool("unemployed", false, "Student is unemployed"),
		whitelist:  fs.Bool("whitelist", false, "Whitelist the student"),
		blacklist:  fs.Bool("blacklist", false, "Blacklist the student"),
	}
}

// draft overlays the flags that were set on base.
func (p *profileFlags) draft(base profile.Draft) (profile.Draft, error) {
	if *p.employed && *p.unemployed {
		return base, fmt.Errorf("--employed and --unemployed are mutually exclusive")
	}
	d := base
	p.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			d.Name = *p.name
		case "status":
			d.AcademicStatus = *p.status
		case "job":
			d.JobDetails = *p.job
		case "role":
			d.PreferredRole = *p.role
		case "comment":
			d.Comment = *p.comment
		case "languages":
			d.Languages = splitList(*p.languages)
		case "databases":
			d.Databases = splitList(*p.databases)
		case "employed":
			if *p.employed {
				d.Employment = profile.Employed
			}
		case "unemployed":
			if *p.unemployed {
				d.Employment = profile.Unemployed
			}
		case "whitelist":
			d.Whitelisted = *p.whitelist
		case "blacklist":
			d.Blacklisted = *p.blacklist
		}
	})
	if d.Employment == profile.Unemployed {
		d.JobDetails = ""
	}
	return d, nil
}

func draftOf(st record.Student) profile.Draft {
	d := profile.Draft{
		Name:           st.Name,
		AcademicStatus: st.AcademicStatus,
		Employment:     profile.Unemployed,
		JobDetails:     st.Job(),
		Languages:      st.Languages,
		Databases:      st.Databases,
		PreferredRole:  st.PreferredRole,
		Whitelisted:    st.Whitelisted,
		Blacklisted:    st.Blacklisted,
	}
	if st.Employed {
		d.Employment = profile.Employed
	}
	return d
}

func (a *app) cmdAdd(args []string) error {
	pf := newProfileFlags("add")
	if err := pf.fs.Parse(args); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	d, err := pf.draft(profile.Draft{})
	if err != nil {
		return err
	}
	a.warnUnknownLanguages(d)

	st, err := a.profiles.Create(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", tui.SuccessStyle.Render("added"), tui.NameStyle.Render(st.Name))
	return nil
}

func (a *app) cmdEdit(args []string) error {
	name, rest := splitName(args)
	if name == "" {
		return fmt.Errorf("usage: roster edit <name> [profile flags]")
	}
	pf := newProfileFlags("edit")
	if err := pf.fs.Parse(rest); err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	if pf.fs.NFlag() == 0 {
		return fmt.Errorf("edit: nothing to change")
	}
	if *pf.comment != "" {
		return fmt.Errorf("edit: use 'roster comment' to add comments")
	}

	current, err := a.lookup(name)
	if err != nil {
		return err
	}
	d, err := pf.draft(draftOf(current))
	if err != nil {
		return err
	}
	a.warnUnknownLanguages(d)

	before, after, err := a.profiles.Update(name, d)
	if err != nil {
		return err
	}
	diff := record.Diff(before, after)
	if diff == "" {
		fmt.Fprintln(a.out, tui.HelpStyle.Render("no changes"))
		return nil
	}
	fmt.Fprint(a.out, tui.Diff(diff))
	return nil
}

func (a *app) cmdDelete(args []string) error {
	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("usage: roster delete <name>")
	}
	_, found, err := a.students.FindByName(name)
	if err != nil {
		return err
	}
	if err := a.students.DeleteByName(name); err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "%s %s\n", tui.WarnStyle.Render("no student named"), name)
		return nil
	}
	fmt.Fprintf(a.out, "%s %s\n", tui.SuccessStyle.Render("deleted"), tui.NameStyle.Render(strings.TrimSpace(name)))
	return nil
}

func (a *app) cmdComment(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: roster comment <name> <text>")
	}
	name, text := a.splitStudent(args)
	if err := a.profiles.AddComment(name, text); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", tui.SuccessStyle.Render("comment added for"), tui.NameStyle.Render(strings.TrimSpace(name)))
	return nil
}

func (a *app) cmdComments(args []string) error {
	name := strings.Join(args, " ")
	comments, err := a.profiles.Comments(name)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		fmt.Fprintln(a.out, tui.HelpStyle.Render("  no comments yet"))
		return nil
	}
	for _, c := range comments {
		fmt.Fprintf(a.out, "  %s  %s\n", tui.DetailStyle.Render(c.Date()), tui.ValueStyle.Render(c.Text))
	}
	return nil
}

func (a *app) cmdSearch(args []string) error {
	names, err := a.engine.GlobalSearch(strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printNames(names, "no matches")
	return nil
}

func (a *app) cmdFilter(args []string) error {
	fs := newFlagSet("filter")
	terms := map[search.Field]*string{}
	for _, f := range []search.Field{
		search.FieldName, search.FieldAcademicStatus, search.FieldJobDetails,
		search.FieldPreferredRole, search.FieldLanguages, search.FieldDatabases,
	} {
		terms[f] = fs.String(f.String(), "", "Substring the "+f.String()+" must contain")
	}
	employed := fs.String("employed", "", "yes or no")
	whitelisted := fs.Bool("whitelisted", false, "Only whitelisted students")
	blacklisted := fs.Bool("blacklisted", false, "Only blacklisted students")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	c := search.Criteria{Terms: map[search.Field]string{}}
	for f, v := range terms {
		if *v != "" {
			c.Terms[f] = *v
		}
	}
	if *employed != "" {
		b, err := parseYesNo(*employed)
		if err != nil {
			return fmt.Errorf("filter: --employed: %w", err)
		}
		c.Employed = &b
	}
	if *whitelisted {
		c.Whitelisted = whitelisted
	}
	if *blacklisted {
		c.Blacklisted = blacklisted
	}

	students, err := a.engine.Filter(c)
	if err != nil {
		return err
	}
	names := make([]string, len(students))
	for i, s := range students {
		names[i] = s.Name
	}
	a.printNames(names, "no matches")
	return nil
}

func (a *app) cmdLangs(args []string) error {
	langs, err := a.languages.GetAll()
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		fmt.Fprintln(a.out, tui.HelpStyle.Render("  no languages yet (add with roster lang-add)"))
		return nil
	}
	for _, l := range langs {
		fmt.Fprintln(a.out, tui.ValueStyle.Render(l))
	}
	return nil
}

func (a *app) cmdLangAdd(args []string) error {
	name := strings.Join(args, " ")
	added, err := a.languages.Add(name)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(a.out, "%s %s\n", tui.WarnStyle.Render("already known:"), strings.TrimSpace(name))
		return nil
	}
	fmt.Fprintf(a.out, "%s %s\n", tui.SuccessStyle.Render("added"), strings.TrimSpace(name))
	return nil
}

func (a *app) cmdExport(args []string) error {
	if len(args) == 0 || !strings.HasSuffix(strings.ToLower(args[0]), ".xlsx") {
		return fmt.Errorf("usage: roster export <file.xlsx> [term]")
	}
	path, term := args[0], strings.Join(args[1:], " ")
	students, err := a.engine.Search(term)
	if err != nil {
		return err
	}
	if err := report.WriteWorkbook(path, students); err != nil {
		return err
	}
	a.log.Info("workbook exported", slog.String("path", path), slog.Int("students", len(students)))
	fmt.Fprintf(a.out, "%s %d students to %s\n", tui.SuccessStyle.Render("wrote"), len(students), path)
	return nil
}

// splitStudent takes the longest leading run of words that names a stored
// student, so unquoted names work. The remaining words are the text. When
// nothing matches, the first word is taken as the name.
func (a *app) splitStudent(args []string) (string, string) {
	for i := len(args) - 1; i > 1; i-- {
		name := strings.Join(args[:i], " ")
		if _, ok, err := a.students.FindByName(name); err == nil && ok {
			return name, strings.Join(args[i:], " ")
		}
	}
	return args[0], strings.Join(args[1:], " ")
}

func (a *app) lookup(name string) (record.Student, error) {
	st, ok, err := a.students.FindByName(name)
	if err != nil {
		return record.Student{}, err
	}
	if !ok {
		return record.Student{}, fmt.Errorf("%w: student '%s'", repository.ErrNotFound, strings.TrimSpace(name))
	}
	return st, nil
}

func (a *app) warnUnknownLanguages(d profile.Draft) {
	if unknown := a.profiles.UnknownLanguages(d); len(unknown) > 0 {
		fmt.Fprintf(a.out, "%s %s (add with roster lang-add)\n",
			tui.WarnStyle.Render("not in language list:"), strings.Join(unknown, ", "))
	}
}

func (a *app) printNames(names []string, none string) {
	fmt.Fprint(a.out, tui.Bullets(names, none))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		return true, nil
	case "no", "n", "false":
		return false, nil
	}
	return false, errors.New("want yes or no")
}
