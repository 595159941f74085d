package desktop

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/montrey/runa/config"
)

// Field returns the value of a configurable metadata field, or false if the
// application has none.
func (a Application) Field(f config.Field) (string, bool) {
	switch f {
	case config.FieldComment:
		return a.Comment, a.Comment != ""
	case config.FieldID:
		id, ok := strings.CutSuffix(a.ID, ".desktop")
		return id, ok && id != ""
	case config.FieldIDSuffix:
		parts := strings.Split(a.ID, ".")
		if len(parts) < 2 || parts[len(parts)-2] == "" {
			return "", false
		}
		return parts[len(parts)-2], true
	case config.FieldExecutable:
		argv, err := a.Argv()
		if err != nil || len(argv) == 0 {
			return "", false
		}
		return filepath.Base(argv[0]), true
	case config.FieldCommandline:
		argv, err := a.Argv()
		if err != nil || len(argv) == 0 {
			return "", false
		}
		return strings.Join(argv, " "), true
	}
	return "", false
}

// Argv splits Exec into arguments and expands the field codes an application
// launched without files understands: %i, %c and %k are substituted, %% is a
// literal percent, file and URL codes are dropped.
func (a Application) Argv() ([]string, error) {
	return expandExec(a.Exec, a)
}

// Argv returns the expanded command line of the action.
func (act Action) Argv(app Application) ([]string, error) {
	return expandExec(act.Exec, app)
}

func expandExec(line string, app Application) ([]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split Exec %q: %w", line, err)
	}

	argv := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch tok {
		case "%i":
			if app.Icon != "" {
				argv = append(argv, "--icon", app.Icon)
			}
			continue
		case "%f", "%F", "%u", "%U", "%d", "%D", "%n", "%N", "%v", "%m":
			continue
		}
		if expanded := expandToken(tok, app); expanded != "" {
			argv = append(argv, expanded)
		}
	}
	return argv, nil
}

func expandToken(tok string, app Application) string {
	if !strings.Contains(tok, "%") {
		return tok
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '%' || i+1 == len(tok) {
			b.WriteByte(tok[i])
			continue
		}
		i++
		switch tok[i] {
		case '%':
			b.WriteByte('%')
		case 'c':
			b.WriteString(app.Name)
		case 'k':
			b.WriteString(app.Path)
		}
	}
	return b.String()
}
