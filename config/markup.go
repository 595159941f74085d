package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"
)

// Styles are the parsed markup_* options.
type Styles struct {
	Default   lipgloss.Style
	Highlight lipgloss.Style
	Extra     lipgloss.Style
}

var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"purple":  "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

// ParseMarkup turns a pango-like attribute list such as
// `foreground="red" underline="double"` into a lipgloss style.
func ParseMarkup(markup string) (lipgloss.Style, error) {
	style := lipgloss.NewStyle()

	attrs, err := shlex.Split(markup)
	if err != nil {
		return style, fmt.Errorf("failed to parse markup %q: %w", markup, err)
	}

	for _, attr := range attrs {
		key, value, ok := strings.Cut(attr, "=")
		if !ok {
			return style, fmt.Errorf("markup attribute %q has no value", attr)
		}
		switch key {
		case "foreground", "fgcolor", "color":
			style = style.Foreground(color(value))
		case "background", "bgcolor":
			style = style.Background(color(value))
		case "weight":
			style = style.Bold(value == "bold" || value == "heavy" || value == "ultrabold")
		case "font_style", "style":
			style = style.Italic(value == "italic" || value == "oblique")
		case "underline":
			style = style.Underline(value != "none" && value != "false")
		case "strikethrough":
			style = style.Strikethrough(truthy(value))
		case "bold":
			style = style.Bold(truthy(value))
		case "italic":
			style = style.Italic(truthy(value))
		case "faint":
			style = style.Faint(truthy(value))
		case "reverse":
			style = style.Reverse(truthy(value))
		default:
			return style, fmt.Errorf("unknown markup attribute %q", key)
		}
	}

	return style, nil
}

func color(value string) lipgloss.Color {
	if n, ok := namedColors[strings.ToLower(value)]; ok {
		return lipgloss.Color(n)
	}
	return lipgloss.Color(value)
}

func truthy(value string) bool {
	b, err := strconv.ParseBool(value)
	return err == nil && b
}
