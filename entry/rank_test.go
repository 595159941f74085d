package entry

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/montrey/runa/locale"
	"github.com/montrey/runa/store"
)

func rankEntry(id, display string, score int64, rec store.Record) *Entry {
	return &Entry{ID: id, Display: display, Search: display, Score: score, History: rec, Content: Line{Text: display}}
}

func TestRankerOrder(t *testing.T) {
	r := Ranker{Collator: locale.NewCollator(language.English)}

	tests := []struct {
		name   string
		first  *Entry
		second *Entry
	}{
		{"score descending", rankEntry("a", "Zed", 200, store.Record{}), rankEntry("b", "Alpha", 150, store.Record{UsageCount: 50})},
		{"usage descending", rankEntry("a", "Zed", 100, store.Record{UsageCount: 3}), rankEntry("b", "Alpha", 100, store.Record{UsageCount: 1, LastUsed: 999})},
		{"recency descending", rankEntry("a", "Zed", 100, store.Record{UsageCount: 1, LastUsed: 200}), rankEntry("b", "Alpha", 100, store.Record{UsageCount: 1, LastUsed: 100})},
		{"locale name order", rankEntry("a", "Émile", 100, store.Record{}), rankEntry("b", "zebra", 100, store.Record{})},
		{"id breaks identical names", rankEntry("a", "Same", 100, store.Record{}), rankEntry("b", "Same", 100, store.Record{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, r.Less(tt.first, tt.second))
			assert.False(t, r.Less(tt.second, tt.first))
			assert.Equal(t, -r.Compare(tt.second, tt.first), r.Compare(tt.first, tt.second))
		})
	}
}

func TestRankerRecentFirst(t *testing.T) {
	r := Ranker{Collator: locale.NewCollator(language.Und)}
	older := rankEntry("older", "A", 100, store.Record{UsageCount: 2, LastUsed: 100})
	newer := rankEntry("newer", "B", 100, store.Record{UsageCount: 2, LastUsed: 200})

	entries := []*Entry{older, newer}
	slices.SortFunc(entries, r.Compare)
	assert.Equal(t, []*Entry{newer, older}, entries)
}

func TestRankerStrictWeakOrder(t *testing.T) {
	r := Ranker{Collator: locale.NewCollator(language.German)}
	rng := rand.New(rand.NewSource(7))
	names := []string{"äpfel", "Apfel", "apfel", "Zebra", "Öl", "ol", "Ober", "Ärger"}

	var entries []*Entry
	for i := 0; i < 40; i++ {
		entries = append(entries, rankEntry(
			string(rune('a'+i%26))+string(rune('A'+i/26)),
			names[rng.Intn(len(names))],
			int64(100+rng.Intn(3)),
			store.Record{UsageCount: uint32(rng.Intn(2)), LastUsed: uint64(rng.Intn(2))},
		))
	}

	for _, a := range entries {
		assert.False(t, r.Less(a, a), "irreflexive")
		for _, b := range entries {
			assert.Equal(t, r.Compare(a, b), r.Compare(a, b), "deterministic")
			if a != b {
				assert.NotZero(t, r.Compare(a, b), "total")
			}
			for _, c := range entries {
				if r.Less(a, b) && r.Less(b, c) {
					assert.True(t, r.Less(a, c), "transitive")
				}
			}
		}
	}
}
