package entry

import (
	"cmp"

	"github.com/montrey/runa/locale"
)

// Ranker orders visible entries: score, usage count and last use descending,
// then display name in locale order. The id breaks any remaining tie.
type Ranker struct {
	Collator *locale.Collator
}

// Compare returns a negative number when a ranks before b.
func (r Ranker) Compare(a, b *Entry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.History.UsageCount, a.History.UsageCount); c != 0 {
		return c
	}
	if c := cmp.Compare(b.History.LastUsed, a.History.LastUsed); c != 0 {
		return c
	}
	if c := r.Collator.Compare(a.Display, b.Display); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Less reports whether a ranks before b.
func (r Ranker) Less(a, b *Entry) bool {
	return r.Compare(a, b) < 0
}
