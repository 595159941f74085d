package entry

import "github.com/montrey/runa/desktop"

// Kind tells the controller which content an entry carries.
type Kind int

const (
	KindApplication Kind = iota
	KindScript
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindScript:
		return "script"
	case KindLine:
		return "line"
	}
	return "unknown"
}

// Content is what activating an entry acts on. It is implemented only by
// Application, Script and Line.
type Content interface {
	Kind() Kind
	sealed()
}

// Application is an installed desktop application, or one of its desktop
// actions when Action is set.
type Application struct {
	App    desktop.Application
	Action *desktop.Action
}

// Script is an executable from the scripts directory.
type Script struct {
	Path string
}

// Line is one line read from stdin in dmenu mode.
type Line struct {
	Text string
}

func (Application) Kind() Kind { return KindApplication }
func (Script) Kind() Kind      { return KindScript }
func (Line) Kind() Kind        { return KindLine }

func (Application) sealed() {}
func (Script) sealed()      {}
func (Line) sealed()        {}
