// Package launch spawns the processes behind activated entries.
package launch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/google/uuid"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/desktop"
)

// ErrEmptyCommand is returned when a command line has no program.
var ErrEmptyCommand = errors.New("empty command line")

// Launcher starts processes detached from runa; it never waits for them.
type Launcher struct {
	// Terminal is the argv prefix for Terminal=true applications.
	Terminal []string
	// Scope wraps every launch in a transient systemd user scope.
	Scope  bool
	Logger *slog.Logger

	start func(*exec.Cmd) error
}

// New builds a Launcher from the configuration. The terminal is term_command,
// else "$TERMINAL -e", else "xterm -e".
func New(cfg *config.Config, getenv func(string) string, logger *slog.Logger) (*Launcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	terminal := []string{"xterm", "-e"}
	if cfg.TermCommand != "" {
		argv, err := shlex.Split(cfg.TermCommand)
		if err != nil {
			return nil, fmt.Errorf("failed to parse term_command: %w", err)
		}
		terminal = argv
	} else if term := getenv("TERMINAL"); term != "" {
		terminal = []string{term, "-e"}
	}

	return &Launcher{
		Terminal: terminal,
		Scope:    cfg.LaunchScope,
		Logger:   logger,
		start:    startDetached,
	}, nil
}

// Command runs a literal command line, split with shell quoting rules.
func (l *Launcher) Command(line string) error {
	argv, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("failed to parse command line %q: %w", line, err)
	}
	if len(argv) == 0 {
		return ErrEmptyCommand
	}
	return l.spawn(argv[0], argv, nil)
}

// Application launches a desktop application.
func (l *Launcher) Application(app desktop.Application) error {
	argv, err := app.Argv()
	if err != nil {
		return err
	}
	return l.application(app, app.ID, argv)
}

// Action launches one of the desktop actions of app.
func (l *Launcher) Action(app desktop.Application, act desktop.Action) error {
	argv, err := act.Argv(app)
	if err != nil {
		return err
	}
	return l.application(app, app.ID+":"+act.ID, argv)
}

func (l *Launcher) application(app desktop.Application, id string, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("%s: %w", id, ErrEmptyCommand)
	}
	if app.Terminal {
		argv = append(append([]string{}, l.Terminal...), argv...)
	}

	var env []string
	if app.PrefersNonDefaultGPU {
		env = append(env, "DRI_PRIME=1")
	}
	name := strings.TrimSuffix(app.ID, ".desktop")
	if _, act, ok := strings.Cut(id, ":"); ok {
		name += "-" + act
	}
	return l.spawn(name, argv, env)
}

// Script runs an executable script.
func (l *Launcher) Script(path string) error {
	return l.spawn(filepath.Base(path), []string{path}, nil)
}

func (l *Launcher) spawn(name string, argv, env []string) error {
	if l.Scope {
		unit := fmt.Sprintf("--unit=app-runa-%s-%s", unitEscape(name), uuid.NewString()[:8])
		argv = append([]string{"systemd-run", "--user", "--scope", "--quiet", unit}, argv...)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	detach(cmd)

	start := l.start
	if start == nil {
		start = startDetached
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("failed to launch %s: %w", argv[0], err)
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("launched", "argv", argv)
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func unitEscape(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
}
