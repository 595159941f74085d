package locale

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders display names for a fixed locale. A Collator built for
// language.Und compares bytes. It is not safe for concurrent use.
type Collator struct {
	tag language.Tag
	c   *collate.Collator
}

// Resolve picks the collation locale from the environment the way libc does:
// LC_ALL, then LC_COLLATE, then LANG. Codesets and modifiers are dropped
// ("de_DE.UTF-8@euro" -> de-DE). C, POSIX and anything unparseable resolve to
// language.Und.
func Resolve(getenv func(string) string) language.Tag {
	for _, key := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		if v := getenv(key); v != "" {
			return parseLocale(v)
		}
	}
	return language.Und
}

func parseLocale(v string) language.Tag {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

// NewCollator returns a collator for tag.
func NewCollator(tag language.Tag) *Collator {
	if tag == language.Und {
		return &Collator{tag: tag}
	}
	return &Collator{tag: tag, c: collate.New(tag)}
}

// Tag reports the locale the collator was built for.
func (c *Collator) Tag() language.Tag {
	return c.tag
}

// Compare returns -1, 0 or 1. Only identical strings compare equal; strings
// the locale considers equivalent fall back to byte order.
func (c *Collator) Compare(a, b string) int {
	if a == b {
		return 0
	}
	if c != nil && c.c != nil {
		if r := c.c.CompareString(a, b); r != 0 {
			return r
		}
	}
	return strings.Compare(a, b)
}
