// Package similarity scores how alike two company or person names are.
package similarity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Scorer compares two names. Implementations return a value in [0,1]
// where 1 means identical and 0 means nothing in common.
type Scorer interface {
	Similarity(a, b string) float64
}

// Kinds accepted by New.
const (
	KindTokenSort   = "token_sort"
	KindWordOverlap = "word_overlap"
)

// New returns the scorer for kind. Unknown kinds fall back to token sort.
func New(kind string) Scorer {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindWordOverlap:
		return WordOverlap{}
	default:
		return TokenSort{}
	}
}

// TokenSort is an edit-distance ratio computed on the alphabetically sorted
// words of both names, so word order does not matter.
type TokenSort struct{}

// indelParams makes a substitution cost as much as a delete plus an insert,
// which turns the distance into an insert/delete distance.
var indelParams = levenshtein.NewParams().SubCost(2)

// Similarity implements Scorer.
func (TokenSort) Similarity(a, b string) float64 {
	sa := sortedTokens(a)
	sb := sortedTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	if sa == sb {
		return 1
	}

	lensum := len([]rune(sa)) + len([]rune(sb))
	dist := levenshtein.Distance(sa, sb, indelParams)
	ratio := float64(lensum-dist) / float64(lensum)
	if ratio < 0 {
		return 0
	}
	return ratio
}

// sortedTokens folds case and accents, replaces everything that is not a
// letter or digit with a space and joins the sorted words.
func sortedTokens(s string) string {
	s = fold(s)
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(words)
	return strings.Join(words, " ")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// WordOverlap is the share of lowercase whitespace-separated words two names
// have in common, relative to the longer one.
type WordOverlap struct{}

// Similarity implements Scorer.
func (WordOverlap) Similarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	overlap := 0
	for w := range wordsA {
		if wordsB[w] {
			overlap++
		}
	}
	return float64(overlap) / float64(max(len(wordsA), len(wordsB)))
}

func wordSet(s string) map[string]bool {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
