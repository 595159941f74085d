// Package desktop discovers and parses freedesktop .desktop application
// entries.
package desktop

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/ini.v1"
)

// ErrSkip is returned for entries that parse but must not be shown.
var ErrSkip = errors.New("skip application")

const mainGroup = "Desktop Entry"

// Application is one launchable desktop entry.
type Application struct {
	ID                   string // desktop-file id, e.g. org.mozilla.firefox.desktop
	Path                 string
	Name                 string
	Comment              string
	Icon                 string
	Exec                 string
	Terminal             bool
	PrefersNonDefaultGPU bool
	Actions              []Action
}

// Action is a "Desktop Action" group of an application.
type Action struct {
	ID   string
	Name string
	Exec string
}

// Parser holds the environment that decides how entries are read.
type Parser struct {
	// Languages in preference order, e.g. ["de_DE", "de"].
	Languages []string
	// Desktops from XDG_CURRENT_DESKTOP.
	Desktops []string
	LookPath func(string) (string, error)
}

// NewParser builds a Parser from environment variables.
func NewParser(getenv func(string) string) *Parser {
	p := &Parser{LookPath: exec.LookPath}

	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(key); v != "" {
			p.Languages = languages(v)
			break
		}
	}
	for _, d := range strings.Split(getenv("XDG_CURRENT_DESKTOP"), ":") {
		if d = strings.TrimSpace(d); d != "" {
			p.Desktops = append(p.Desktops, d)
		}
	}
	return p
}

func languages(locale string) []string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return nil
	}
	langs := []string{locale}
	if lang, _, ok := strings.Cut(locale, "_"); ok {
		langs = append(langs, lang)
	}
	return langs
}

func openEntry(path string) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		IgnoreContinuation:      true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
		PreserveSurroundedQuote: true,
		KeyValueDelimiters:      "=",
	}, path)
}

// localized returns the value of key for the first matching language,
// falling back to the plain key.
func localized(sec *ini.Section, key string, langs []string) string {
	for _, lang := range langs {
		if k := key + "[" + lang + "]"; sec.HasKey(k) {
			return unescape(sec.Key(k).Value())
		}
	}
	return value(sec, key)
}

func value(sec *ini.Section, key string) string {
	if !sec.HasKey(key) {
		return ""
	}
	return unescape(sec.Key(key).Value())
}

func boolean(sec *ini.Section, key string) bool {
	return value(sec, key) == "true"
}

// Parse reads the desktop file at path and returns the application it
// describes under id.
func (p *Parser) Parse(path, id string) (Application, error) {
	file, err := openEntry(path)
	if err != nil {
		return Application{}, err
	}

	entry, err := file.GetSection(mainGroup)
	if err != nil {
		return Application{}, fmt.Errorf("missing [%s] group", mainGroup)
	}
	if value(entry, "Type") != "Application" || boolean(entry, "Hidden") || boolean(entry, "NoDisplay") {
		return Application{}, ErrSkip
	}
	if !p.shownIn(entry) {
		return Application{}, ErrSkip
	}
	if tryExec := value(entry, "TryExec"); tryExec != "" && p.LookPath != nil {
		if _, err := p.LookPath(tryExec); err != nil {
			return Application{}, ErrSkip
		}
	}

	app := Application{
		ID:                   id,
		Path:                 path,
		Name:                 localized(entry, "Name", p.Languages),
		Comment:              localized(entry, "Comment", p.Languages),
		Icon:                 value(entry, "Icon"),
		Exec:                 value(entry, "Exec"),
		Terminal:             boolean(entry, "Terminal"),
		PrefersNonDefaultGPU: boolean(entry, "PrefersNonDefaultGPU"),
	}
	if app.Name == "" || app.Exec == "" {
		return Application{}, ErrSkip
	}

	for _, actionID := range strings.Split(value(entry, "Actions"), ";") {
		if actionID == "" {
			continue
		}
		sec, err := file.GetSection("Desktop Action " + actionID)
		if err != nil {
			continue
		}
		action := Action{ID: actionID, Name: localized(sec, "Name", p.Languages), Exec: value(sec, "Exec")}
		if action.Name == "" || action.Exec == "" {
			continue
		}
		app.Actions = append(app.Actions, action)
	}

	return app, nil
}

func (p *Parser) shownIn(entry *ini.Section) bool {
	if only := value(entry, "OnlyShowIn"); only != "" {
		if !p.matchesDesktop(only) {
			return false
		}
	}
	if not := value(entry, "NotShowIn"); not != "" {
		if p.matchesDesktop(not) {
			return false
		}
	}
	return true
}

func (p *Parser) matchesDesktop(list string) bool {
	for _, d := range strings.Split(list, ";") {
		for _, current := range p.Desktops {
			if d != "" && strings.EqualFold(d, current) {
				return true
			}
		}
	}
	return false
}

func unescape(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 == len(value) {
			b.WriteByte(c)
			continue
		}
		i++
		switch value[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// Dirs returns the application directories in XDG precedence order: the
// data home first, then each system data directory.
func Dirs() []string {
	dirs := make([]string, 0, len(xdg.DataDirs)+1)
	dirs = append(dirs, filepath.Join(xdg.DataHome, "applications"))
	for _, dir := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(dir, "applications"))
	}
	return dirs
}

// Discover parses every .desktop file below dirs. The first directory that
// provides an id wins. Applications whose id matches any exclude pattern are
// dropped. Per-file failures are joined into the returned error; the
// applications that did parse are returned regardless.
func (p *Parser) Discover(dirs []string, exclude []*regexp.Regexp, logger *slog.Logger) ([]Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]struct{})
	apps := make([]Application, 0, 128)
	var errs []error

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				errs = append(errs, fmt.Errorf("read %s: %w", path, err))
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".desktop") {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return nil
			}
			id := strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
			if _, ok := seen[id]; ok {
				return nil
			}
			seen[id] = struct{}{}

			if excluded(id, exclude) {
				logger.Debug("excluded application", "id", id)
				return nil
			}

			app, err := p.Parse(path, id)
			if err != nil {
				if errors.Is(err, ErrSkip) {
					logger.Debug("skipping application", "id", id)
					return nil
				}
				errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
				return nil
			}
			apps = append(apps, app)
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("walk %s: %w", dir, err))
		}
	}

	return apps, errors.Join(errs...)
}

func excluded(id string, exclude []*regexp.Regexp) bool {
	for _, re := range exclude {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}
