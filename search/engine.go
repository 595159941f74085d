package search

import (
	"github.com/sahilm/fuzzy"
)

// EmptyQueryScore is the score of every entry while the query is empty.
const EmptyQueryScore = 100

// matchOffset lifts sahilm/fuzzy scores, which go negative for long
// candidates, into a strictly positive range. Zero is reserved for "no match".
const matchOffset = 1 << 16

type Result struct {
	Score   int64
	Matches []int // Byte offsets of matched characters in the candidate
}

// single adapts one candidate string to fuzzy.Source.
type single string

func (s single) String(int) string { return string(s) }
func (s single) Len() int          { return 1 }

// Match scores query against text. An empty query matches everything with
// EmptyQueryScore and no highlights. A non-empty query must occur in text as
// a case-insensitive subsequence; higher scores mean better matches
// (adjacent characters, word starts and camel case humps are rewarded).
func Match(query, text string) (Result, bool) {
	if query == "" {
		return Result{Score: EmptyQueryScore}, true
	}

	matches := fuzzy.FindFromNoSort(query, single(text))
	if len(matches) == 0 {
		return Result{}, false
	}

	m := matches[0]
	score := int64(m.Score) + matchOffset
	if score < 1 {
		score = 1
	}
	return Result{Score: score, Matches: m.MatchedIndexes}, true
}
