package msgparse

import (
	"regexp"
	"sort"
	"strings"

	"github.com/orsinium-labs/stopwords"
)

// englishStopwords is loaded once; wordcloud.py builds an equivalent table
// per language, but only English is wired here since no multi-language
// source text is available anywhere in the pack to ground other tables.
var englishStopwords = stopwords.MustGet("en")

var wordPattern = regexp.MustCompile(`[\pL\pN']+`)

// cloudWordsOf extracts the "cloud text" words from rendered: ordinary
// text nodes, quote bodies, and bold/italic/strike runs, excluding
// synthetic status/markup text — the same source wordcloud.py's word
// frequency pass draws from.
func cloudWordsOf(n *Node) []string {
	var words []string
	var walk func(*Node)
	walk = func(node *Node) {
		if greySpanTags[node.Tag] {
			return
		}
		words = append(words, wordPattern.FindAllString(node.Text, -1)...)
		for _, c := range node.Children {
			walk(c)
		}
		words = append(words, wordPattern.FindAllString(node.Tail, -1)...)
	}
	walk(n)
	return words
}

// WordFrequency counts stopword-filtered word occurrences across words,
// case-folded, the supplemental feature recovered from wordcloud.py (the
// GUI layout/font-size mapping itself stays out of scope; only the
// frequency table is computed here).
func WordFrequency(words []string) map[string]int {
	freq := map[string]int{}
	for _, w := range words {
		lower := strings.ToLower(w)
		if len(lower) < 2 {
			continue
		}
		if englishStopwords.Contains(lower) {
			continue
		}
		freq[lower]++
	}
	return freq
}

// TopWords returns the n most frequent words from freq, most frequent
// first, ties broken alphabetically for determinism.
func TopWords(freq map[string]int, n int) []string {
	type pair struct {
		word  string
		count int
	}
	pairs := make([]pair, 0, len(freq))
	for w, c := range freq {
		pairs = append(pairs, pair{w, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].word < pairs[j].word
	})
	if n > len(pairs) {
		n = len(pairs)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = pairs[i].word
	}
	return out
}
