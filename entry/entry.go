// Package entry holds the launchable items shown in the list, their match
// state and the order they are ranked in.
package entry

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/desktop"
	"github.com/montrey/runa/search"
	"github.com/montrey/runa/store"
)

// Range is a half-open byte range [Start, End) of the display string.
type Range struct {
	Start, End int
}

// Entry is one launchable item.
type Entry struct {
	ID      string
	Display string
	// Search is Display followed by hidden fields; only used for matching.
	Search string
	// Extra marks the appended disambiguation suffix, if any.
	Extra   *Range
	Score   int64
	History store.Record
	Content Content

	highlights []int
	spans      []Span
}

// Kind reports the content kind.
func (e *Entry) Kind() Kind {
	return e.Content.Kind()
}

// UpdateMatch rescores the entry against query and rebuilds its markup.
func (e *Entry) UpdateMatch(query string) {
	e.highlights = e.highlights[:0]

	res, ok := search.Match(query, e.Search)
	if !ok {
		e.Score = 0
	} else {
		e.Score = res.Score
		for _, i := range res.Matches {
			if i < len(e.Display) {
				e.highlights = append(e.highlights, i)
			}
		}
	}
	e.spans = e.buildSpans()
}

// Hide marks the entry as not matching regardless of the query.
func (e *Entry) Hide() {
	e.Score = 0
	e.highlights = e.highlights[:0]
	e.spans = e.buildSpans()
}

// Hidden reports whether the entry is filtered out.
func (e *Entry) Hidden() bool {
	return e.Score == 0
}

// Factory builds entries with the history and configuration of a session.
type Factory struct {
	cfg     *config.Config
	history store.History
	title   cases.Caser
}

// NewFactory returns a Factory. history may be nil.
func NewFactory(cfg *config.Config, history store.History) *Factory {
	return &Factory{cfg: cfg, history: history, title: cases.Title(language.Und)}
}

func (f *Factory) newEntry(id, display, searchText string, extra *Range, score int64, content Content) *Entry {
	rec := f.history[id]
	if !f.cfg.RecentFirst {
		rec.LastUsed = 0
	}
	if !f.cfg.FrequentFirst {
		rec.UsageCount = 0
	}

	e := &Entry{
		ID:      id,
		Display: display,
		Search:  searchText,
		Extra:   extra,
		Score:   score,
		History: rec,
		Content: content,
	}
	e.spans = e.buildSpans()
	return e
}

// Application builds the entry for a desktop application. The display name
// is the configured override, or the application name with the configured
// extra field appended.
func (f *Factory) Application(app desktop.Application) *Entry {
	display, extra := f.displayName(app)
	return f.newEntry(app.ID, display, f.searchText(app, display), extra, search.EmptyQueryScore, Application{App: app})
}

// Actions builds one entry per desktop action of app, shown as
// "Name: Action" with the action name marked as the extra range. Their ids
// are "<app id>:<action id>".
func (f *Factory) Actions(app desktop.Application) []*Entry {
	entries := make([]*Entry, 0, len(app.Actions))
	for i := range app.Actions {
		act := app.Actions[i]
		display := app.Name + ": " + act.Name
		extra := &Range{Start: len(app.Name) + 2, End: len(display)}
		entries = append(entries, f.newEntry(app.ID+":"+act.ID, display, f.searchText(app, display), extra,
			search.EmptyQueryScore, Application{App: app, Action: &act}))
	}
	return entries
}

// searchText appends the configured hidden fields to display.
func (f *Factory) searchText(app desktop.Application, display string) string {
	var hidden []string
	for _, field := range f.cfg.HiddenFields {
		if v, ok := app.Field(field); ok {
			hidden = append(hidden, v)
		}
	}
	if len(hidden) == 0 {
		return display
	}
	return display + " " + strings.Join(hidden, " ")
}

func (f *Factory) displayName(app desktop.Application) (string, *Range) {
	if id, ok := app.Field(config.FieldID); ok {
		if name, ok := f.cfg.NameOverrides[id]; ok {
			i := strings.Index(name, config.OverrideSeparator)
			display := strings.ReplaceAll(name, config.OverrideSeparator, " ")
			if i < 0 {
				return display, nil
			}
			return display, &Range{Start: i + len(config.OverrideSeparator), End: len(display)}
		}
	}

	field, ok := f.cfg.Extra()
	if !ok {
		return app.Name, nil
	}
	value, ok := app.Field(field)
	if !ok || value == "" {
		return app.Name, nil
	}
	if f.cfg.HideExtraIfContained && strings.Contains(strings.ToLower(app.Name), strings.ToLower(value)) {
		return app.Name, nil
	}
	display := app.Name + " " + value
	return display, &Range{Start: len(app.Name) + 1, End: len(display)}
}

// Script builds the entry for an executable at path. The display name is the
// file stem with '_' and '-' turned into spaces, title-cased.
func (f *Factory) Script(path string, initScore int64) *Entry {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	display := f.titleCase(strings.NewReplacer("_", " ", "-", " ").Replace(stem))

	return f.newEntry(path, display, display+" "+path, nil, initScore, Script{Path: path})
}

// smallWords stay lowercase inside a title.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "en": true, "for": true, "if": true, "in": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "v": true, "v.": true,
	"via": true, "vs": true, "vs.": true,
}

// titleCase capitalizes each word except small words in the middle of the
// title. Words that already carry capitals, like "VPN" or "iPhone", are kept.
func (f *Factory) titleCase(s string) string {
	words := strings.Split(s, " ")
	first, last := -1, -1
	for i, w := range words {
		if w != "" {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	for i, w := range words {
		switch {
		case w == "":
		case i != first && i != last && smallWords[strings.ToLower(w)]:
			words[i] = strings.ToLower(w)
		case strings.ToLower(w) != w:
		default:
			words[i] = f.title.String(w)
		}
	}
	return strings.Join(words, " ")
}

// Line builds the entry for one stdin line.
func (f *Factory) Line(text string) *Entry {
	return f.newEntry(text, text, text, nil, search.EmptyQueryScore, Line{Text: text})
}
