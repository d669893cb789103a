package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jeanpaul/roster/internal/config"
	"github.com/jeanpaul/roster/internal/logging"
	"github.com/jeanpaul/roster/internal/profile"
	"github.com/jeanpaul/roster/internal/repository"
	"github.com/jeanpaul/roster/internal/search"
	"github.com/jeanpaul/roster/internal/storage"
	"github.com/jeanpaul/roster/internal/tui"
)

// Set with -ldflags "-X main.version=..." at release time.
var version = "dev"

var errUsage = errors.New("usage")

type app struct {
	out       io.Writer
	log       *slog.Logger
	store     *storage.Store
	students  *repository.Students
	languages *repository.Languages
	profiles  *profile.Service
	engine    *search.Engine
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fatal("%v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("roster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFlag := fs.String("config", "", "Path to config.yaml")
	dataDirFlag := fs.String("data-dir", "", "Directory holding the student and language stores")
	strictFlag := fs.Bool("strict", false, "Fail reads when a store cannot be parsed")
	versionFlag := fs.Bool("version", false, "Print version")
	helpFlag := fs.Bool("help", false, "Show help")
	fs.BoolVar(helpFlag, "h", false, "Show help")
	fs.Usage = func() { showHelp(stdout) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	if *helpFlag {
		showHelp(stdout)
		return nil
	}
	if *versionFlag {
		fmt.Fprintf(stdout, "roster %s\n", version)
		return nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		showHelp(stdout)
		return nil
	}

	// config init must work before any config exists.
	if rest[0] == "config" {
		return cmdConfig(stdout, rest[1:])
	}
	if rest[0] == "help" {
		showHelp(stdout)
		return nil
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *dataDirFlag != "" {
		cfg.DataDir = *dataDirFlag
	}
	if *strictFlag {
		cfg.StrictLoad = true
	}

	a, err := newApp(cfg, stdout, stderr)
	if err != nil {
		return err
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "list":
		return a.cmdList(cmdArgs)
	case "show":
		return a.cmdShow(cmdArgs)
	case "add":
		return a.cmdAdd(cmdArgs)
	case "edit":
		return a.cmdEdit(cmdArgs)
	case "delete":
		return a.cmdDelete(cmdArgs)
	case "comment":
		return a.cmdComment(cmdArgs)
	case "comments":
		return a.cmdComments(cmdArgs)
	case "search":
		return a.cmdSearch(cmdArgs)
	case "filter":
		return a.cmdFilter(cmdArgs)
	case "langs":
		return a.cmdLangs(cmdArgs)
	case "lang-add":
		return a.cmdLangAdd(cmdArgs)
	case "export":
		return a.cmdExport(cmdArgs)
	default:
		return fmt.Errorf("unknown command %q (run 'roster help')", cmd)
	}
}

// newApp prepares the data directory and wires the repositories.
func newApp(cfg *config.Config, stdout, stderr io.Writer) (*app, error) {
	logger := logging.New(cfg.Log, stderr)
	store := storage.New(cfg.DataDir, cfg.StudentsFile, cfg.LanguagesFile)

	if err := store.EnsureStudentsStore(); err != nil {
		return nil, err
	}
	if err := store.EnsureLanguagesStore(); err != nil {
		return nil, err
	}
	removed, err := store.PruneTemp()
	if err != nil {
		logger.Warn("temp file cleanup failed", slog.String("dir", store.Dir()), slog.Any("error", err))
	}
	for _, p := range removed {
		logger.Info("removed leftover temp file", slog.String("path", p))
	}

	opts := repository.Options{Logger: logger, StrictLoad: cfg.StrictLoad}
	students := repository.NewStudents(store, opts)
	languages := repository.NewLanguages(store, opts)

	return &app{
		out:       stdout,
		log:       logger,
		store:     store,
		students:  students,
		languages: languages,
		profiles:  profile.NewService(students, languages, logger),
		engine:    search.NewEngine(students),
	}, nil
}

func cmdConfig(out io.Writer, args []string) error {
	if len(args) == 0 || args[0] != "init" {
		return fmt.Errorf("usage: roster config init [path]")
	}
	path := filepath.Join(config.Dir(), "config.yaml")
	if len(args) > 1 {
		path = args[1]
	}
	if err := config.SaveDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", tui.SuccessStyle.Render("wrote"), path)
	return nil
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}

func showHelp(out io.Writer) {
	help := `
` + tui.BannerStyle.Render("Roster") + ` - student records from your terminal

` + tui.LabelStyle.Render("USAGE:") + `
  roster [flags] <command> [args]

` + tui.LabelStyle.Render("COMMANDS:") + `
  list                        List student names, sorted
  show <name>                 Show a student's profile
  add [profile flags]         Add a student
  edit <name> [profile flags] Change a student and print the diff
  delete <name>               Delete a student
  comment <name> <text>       Append a comment dated today; an unquoted
                              name matches the longest stored student name
  comments <name>             List a student's comments
  search [term]               Names matching term in any field
  filter [criteria flags]     Students matching every criterion
  langs                       List known programming languages
  lang-add <name>             Add a programming language
  export <file.xlsx> [term]   Write matching students to a workbook
  config init [path]          Write a default config.yaml
  help                        Show this help

` + tui.LabelStyle.Render("PROFILE FLAGS:") + `
  --name, --status, --job, --role, --comment
  --languages a,b  --databases a,b
  --employed | --unemployed  --whitelist  --blacklist

` + tui.LabelStyle.Render("FLAGS:") + `
  --config <path>             Use a specific config file
  --data-dir <dir>            Override the data directory
  --strict                    Fail instead of treating a corrupt store as empty
  --version                   Show version
  --help, -h                  Show this help

` + tui.LabelStyle.Render("EXAMPLES:") + `
  roster add --name "Ada Lovelace" --status Senior --employed --job Engineer \
             --languages Python --databases Postgres --role Back-end
  roster search python
  roster filter --language go --employed yes
  roster export report.xlsx senior
`
	fmt.Fprint(out, help)
}
