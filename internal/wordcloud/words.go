// Package wordcloud turns input text into a word cloud image: words sized by
// frequency and packed around the centre without overlapping.
package wordcloud

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)

// Word is one entry of the frequency table.
type Word struct {
	Text   string
	Count  int
	Weight float64 // Count divided by the top count, in (0, 1]
}

// Frequencies tokenizes text and returns the MaxWords most frequent words,
// most frequent first.
func Frequencies(text string, opts Options) []Word {
	opts = opts.withDefaults()

	type entry struct {
		variants map[string]int
		total    int
		first    int
	}
	groups := map[string]*entry{}
	order := 0

	for _, tok := range tokenPattern.FindAllString(text, -1) {
		lower := strings.ToLower(tok)
		if strings.HasSuffix(lower, "'s") {
			tok = tok[:len(tok)-2]
			lower = lower[:len(lower)-2]
		}
		if tok == "" || isNumber(tok) || opts.Stopwords[lower] {
			continue
		}
		e, ok := groups[lower]
		if !ok {
			e = &entry{variants: map[string]int{}, first: order}
			groups[lower] = e
			order++
		}
		e.variants[tok]++
		e.total++
	}

	// fold plurals into an existing singular: "movies" -> "movie"
	for key, e := range groups {
		if !strings.HasSuffix(key, "s") || strings.HasSuffix(key, "ss") {
			continue
		}
		singular, ok := groups[key[:len(key)-1]]
		if !ok {
			continue
		}
		singular.total += e.total
		singular.first = min(singular.first, e.first)
		delete(groups, key)
	}

	words := make([]Word, 0, len(groups))
	firsts := make(map[string]int, len(groups))
	for _, e := range groups {
		text := mostCommonVariant(e.variants)
		words = append(words, Word{Text: text, Count: e.total})
		firsts[text] = e.first
	}
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return firsts[words[i].Text] < firsts[words[j].Text]
	})
	if len(words) > opts.MaxWords {
		words = words[:opts.MaxWords]
	}
	if len(words) > 0 {
		top := float64(words[0].Count)
		for i := range words {
			words[i].Weight = float64(words[i].Count) / top
		}
	}
	return words
}

// mostCommonVariant picks the spelling used most often; ties go to the
// lexically smallest so output is deterministic.
func mostCommonVariant(variants map[string]int) string {
	best, bestN := "", -1
	for v, n := range variants {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
