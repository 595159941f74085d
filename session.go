package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/controller"
	"github.com/montrey/runa/desktop"
	"github.com/montrey/runa/entry"
	"github.com/montrey/runa/launch"
	"github.com/montrey/runa/locale"
	"github.com/montrey/runa/search"
	"github.com/montrey/runa/store"
	"github.com/montrey/runa/ui"
)

func runSession(mode controller.Mode, cfg *config.Config, paths *config.Paths, logger *slog.Logger) error {
	collator := locale.NewCollator(locale.Resolve(os.Getenv))
	logger.Debug("starting", "mode", mode, "collation", collator.Tag())

	history := store.New(paths.HistoryFile(), logger)
	hist := history.Load(cfg.PruneHistory)
	factory := entry.NewFactory(cfg, hist)

	var entries []*entry.Entry
	var err error
	switch mode {
	case controller.ModeApplications:
		entries, err = applicationEntries(factory, cfg, paths, logger)
	case controller.ModeScripts:
		dir := scriptDir
		if dir == "" {
			dir = paths.ScriptsDir()
		}
		entries, err = scriptEntries(factory, dir, search.EmptyQueryScore)
	case controller.ModeStdin:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("dmenu mode reads its choices from stdin, which is a terminal")
		}
		entries, err = lineEntries(factory, os.Stdin)
	}
	if err != nil {
		return err
	}
	logger.Debug("entries loaded", "count", len(entries))

	launcher, err := launch.New(cfg, os.Getenv, logger)
	if err != nil {
		return err
	}
	styles, err := cfg.Styles()
	if err != nil {
		return err
	}

	ctrl := controller.New(mode, entries, cfg, entry.Ranker{Collator: collator})
	ctrl.Launcher = launcher
	ctrl.Store = history
	ctrl.History = hist
	ctrl.Out = os.Stdout
	ctrl.Logger = logger

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if mode == controller.ModeStdin {
		// stdin and stdout carry data; draw on the terminal itself.
		tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("cannot open /dev/tty: %w", err)
		}
		defer tty.Close()
		lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())
		opts = append(opts, tea.WithInput(tty), tea.WithOutput(tty))
	}

	final, err := tea.NewProgram(ui.New(ctrl, styles, cfg.Lines), opts...).Run()
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	m, ok := final.(ui.Model)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}
	if err := m.Err(); err != nil {
		logger.Error("activation failed", "error", err)
		return err
	}
	return nil
}

// applicationEntries loads the installed applications and, hidden until the
// script prefix is typed, the scripts of the default directory.
func applicationEntries(factory *entry.Factory, cfg *config.Config, paths *config.Paths, logger *slog.Logger) ([]*entry.Entry, error) {
	exclude, err := cfg.ExcludePatterns()
	if err != nil {
		return nil, err
	}

	apps, err := desktop.NewParser(os.Getenv).Discover(desktop.Dirs(), exclude, logger)
	if err != nil {
		logger.Warn("some desktop files could not be read", "error", err)
	}

	entries := make([]*entry.Entry, 0, len(apps))
	for _, app := range apps {
		entries = append(entries, factory.Application(app))
		if cfg.ShowActions {
			entries = append(entries, factory.Actions(app)...)
		}
	}

	scripts, err := scriptEntries(factory, paths.ScriptsDir(), 0)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("cannot list scripts", "dir", paths.ScriptsDir(), "error", err)
	}
	return append(entries, scripts...), nil
}

func scriptEntries(factory *entry.Factory, dir string, score int64) ([]*entry.Entry, error) {
	files, err := search.ListScripts(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]*entry.Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, factory.Script(f, score))
	}
	return entries, nil
}

// lineEntries reads one entry per non-blank line, trimmed. Duplicate lines
// collapse into one entry.
func lineEntries(factory *entry.Factory, r io.Reader) ([]*entry.Entry, error) {
	seen := make(map[string]bool)
	var entries []*entry.Entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		entries = append(entries, factory.Line(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return entries, nil
}
