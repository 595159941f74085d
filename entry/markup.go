package entry

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/runa/config"
)

// Layer orders styled spans; later layers are drawn over earlier ones.
type Layer int

const (
	LayerBase Layer = iota
	LayerExtra
	LayerHighlight
)

// Span styles the byte range [Start, End) of the display string.
type Span struct {
	Start, End int
	Layer      Layer
}

// buildSpans returns a new span list: the base span over the whole display,
// the extra range, then one span per highlighted byte.
func (e *Entry) buildSpans() []Span {
	spans := make([]Span, 0, 2+len(e.highlights))
	spans = append(spans, Span{Start: 0, End: len(e.Display), Layer: LayerBase})
	if e.Extra != nil {
		spans = append(spans, Span{Start: e.Extra.Start, End: e.Extra.End, Layer: LayerExtra})
	}
	for _, i := range e.highlights {
		spans = append(spans, Span{Start: i, End: i + 1, Layer: LayerHighlight})
	}
	return spans
}

// Spans returns the styled ranges of the display string in layering order.
func (e *Entry) Spans() []Span {
	return append([]Span(nil), e.spans...)
}

type layerMask uint8

func (e *Entry) maskAt(i int) layerMask {
	var m layerMask
	for _, s := range e.spans {
		if i >= s.Start && i < s.End {
			m |= 1 << s.Layer
		}
	}
	return m
}

func styleFor(m layerMask, styles config.Styles) lipgloss.Style {
	style := lipgloss.NewStyle()
	if m&(1<<LayerHighlight) != 0 {
		style = style.Inherit(styles.Highlight)
	}
	if m&(1<<LayerExtra) != 0 {
		style = style.Inherit(styles.Extra)
	}
	if m&(1<<LayerBase) != 0 {
		style = style.Inherit(styles.Default)
	}
	return style
}

// Render draws the display string with its spans applied. A character is
// styled by the layers covering its first byte.
func (e *Entry) Render(styles config.Styles) string {
	if e.Display == "" {
		return ""
	}

	var b strings.Builder
	start := 0
	current := e.maskAt(0)
	for i := 0; i < len(e.Display); {
		_, size := utf8.DecodeRuneInString(e.Display[i:])
		if m := e.maskAt(i); m != current {
			b.WriteString(styleFor(current, styles).Render(e.Display[start:i]))
			start, current = i, m
		}
		i += size
	}
	b.WriteString(styleFor(current, styles).Render(e.Display[start:]))
	return b.String()
}
