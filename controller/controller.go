// Package controller turns query text into the visible, ranked entry list and
// carries out the chosen action.
package controller

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/desktop"
	"github.com/montrey/runa/entry"
	"github.com/montrey/runa/store"
)

// Mode is the kind of session runa was started in.
type Mode int

const (
	ModeApplications Mode = iota
	ModeScripts
	ModeStdin
)

func (m Mode) String() string {
	switch m {
	case ModeApplications:
		return "apps"
	case ModeScripts:
		return "scripts"
	case ModeStdin:
		return "dmenu"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Launcher starts the process behind an activated entry.
type Launcher interface {
	Command(line string) error
	Application(app desktop.Application) error
	Action(app desktop.Application, act desktop.Action) error
	Script(path string) error
}

// HistoryStore persists usage statistics.
type HistoryStore interface {
	Update(history store.History, id string)
	Save(history store.History) error
}

// Action is what submitting the query resolved to: an entry, or a literal
// command line when Entry is nil.
type Action struct {
	Entry   *entry.Entry
	Command string
}

// Controller owns the entries of a session.
type Controller struct {
	Launcher Launcher
	Store    HistoryStore
	History  store.History
	// Out receives the selected line in stdin mode.
	Out    io.Writer
	Logger *slog.Logger

	mode    Mode
	cfg     *config.Config
	ranker  entry.Ranker
	entries []*entry.Entry
	visible []*entry.Entry
	cursor  int
	query   string
}

// New returns a controller showing the entries for an empty query.
func New(mode Mode, entries []*entry.Entry, cfg *config.Config, ranker entry.Ranker) *Controller {
	c := &Controller{
		mode:    mode,
		cfg:     cfg,
		ranker:  ranker,
		entries: entries,
	}
	c.SetQuery("")
	return c
}

// Mode reports the session mode.
func (c *Controller) Mode() Mode { return c.mode }

// Query returns the text last passed to SetQuery.
func (c *Controller) Query() string { return c.query }

func (c *Controller) commandLine(text string) (string, bool) {
	if c.cfg.CommandPrefix == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(text, c.cfg.CommandPrefix)
	return strings.TrimSpace(rest), ok
}

func (c *Controller) scriptQuery(text string) (string, bool) {
	if c.mode != ModeApplications || c.cfg.ScriptPrefix == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(text, c.cfg.ScriptPrefix)
	return strings.TrimSpace(rest), ok
}

// SetQuery rescores every entry against text, then refilters and resorts the
// visible list and moves the selection to the top row.
//
// A command prefix hides everything. In application mode the script prefix
// switches the list to scripts, matched against the rest of the text;
// without it scripts stay hidden.
func (c *Controller) SetQuery(text string) {
	c.query = text

	if _, ok := c.commandLine(text); ok {
		for _, e := range c.entries {
			e.Hide()
		}
	} else if rest, ok := c.scriptQuery(text); ok {
		c.matchKind(entry.KindScript, rest)
	} else if c.mode == ModeApplications {
		c.matchKind(entry.KindApplication, text)
	} else {
		for _, e := range c.entries {
			e.UpdateMatch(text)
		}
	}

	c.refresh()
}

func (c *Controller) matchKind(kind entry.Kind, query string) {
	for _, e := range c.entries {
		if e.Kind() == kind {
			e.UpdateMatch(query)
		} else {
			e.Hide()
		}
	}
}

func (c *Controller) refresh() {
	c.visible = c.visible[:0]
	for _, e := range c.entries {
		if !e.Hidden() {
			c.visible = append(c.visible, e)
		}
	}
	slices.SortStableFunc(c.visible, c.ranker.Compare)
	c.cursor = 0
}

// Visible returns the shown entries in display order. The slice is only
// valid until the next SetQuery.
func (c *Controller) Visible() []*entry.Entry {
	return c.visible
}

// Cursor returns the selected row.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Selected returns the entry under the cursor, or nil if nothing is shown.
func (c *Controller) Selected() *entry.Entry {
	if c.cursor < 0 || c.cursor >= len(c.visible) {
		return nil
	}
	return c.visible[c.cursor]
}

// Move shifts the selection by delta rows, stopping at either end.
func (c *Controller) Move(delta int) {
	if len(c.visible) == 0 {
		c.cursor = 0
		return
	}
	c.cursor = max(0, min(c.cursor+delta, len(c.visible)-1))
}

// Submit resolves the current query. It reports false when there is nothing
// to activate.
func (c *Controller) Submit() (Action, bool) {
	if line, ok := c.commandLine(c.query); ok {
		return Action{Command: line}, true
	}
	if e := c.Selected(); e != nil {
		return Action{Entry: e}, true
	}
	return Action{}, false
}

// Activate launches the action and records the entry in the history. A failed
// launch leaves the history untouched; a failed save is reported after the
// launch has happened.
func (c *Controller) Activate(a Action) error {
	if a.Entry == nil {
		return c.Launcher.Command(a.Command)
	}

	var err error
	switch content := a.Entry.Content.(type) {
	case entry.Application:
		if content.Action != nil {
			err = c.Launcher.Action(content.App, *content.Action)
		} else {
			err = c.Launcher.Application(content.App)
		}
	case entry.Script:
		err = c.Launcher.Script(content.Path)
	case entry.Line:
		_, err = fmt.Fprintln(c.out(), content.Text)
	default:
		err = fmt.Errorf("unsupported entry content %T", content)
	}
	if err != nil {
		return err
	}

	if c.Store == nil {
		return nil
	}
	if c.History == nil {
		c.History = store.History{}
	}
	c.Store.Update(c.History, a.Entry.ID)
	if err := c.Store.Save(c.History); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	c.logger().Debug("history updated", "id", a.Entry.ID, "mode", c.mode)
	return nil
}

func (c *Controller) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
