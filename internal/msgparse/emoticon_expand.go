package msgparse

import (
	"regexp"
	"sort"
	"strings"

	"github.com/coregx/ahocorasick"
)

var emoticonAutomaton *ahocorasick.Automaton

func init() {
	builder := ahocorasick.NewBuilder().AddStrings(emoticonTriggers).SetMatchKind(ahocorasick.LeftmostLongest).SetPrefilter(true)
	automaton, err := builder.Build()
	if err != nil {
		panic("msgparse: failed to build emoticon automaton: " + err.Error())
	}
	emoticonAutomaton = automaton
}

// emoticonGateChars are the characters the gate check in spec requires at
// least one of before the automaton pass is even attempted.
const emoticonGateChars = `:|()/`

// containsEmoticonTrigger reports whether body contains at least one
// character that could start an emoticon shorthand, the cheap pre-check
// gating the more expensive automaton/regex passes.
func containsEmoticonTrigger(body string) bool {
	return strings.ContainsAny(body, emoticonGateChars)
}

// trailingPunct matches the gate after an emoticon match: zero or more
// ASCII punctuation characters, then whitespace or end of string. A match
// followed directly by another recognized emoticon is accepted separately
// by startsWithAnyTrigger.
var trailingPunct = regexp.MustCompile(`^[.,;:?!'"]*(\s|$)`)

// ExpandEmoticons replaces literal emoticon shorthand in body with
// <ss type="name">text</ss> tags, gated to message bodies that contain no
// "<" (i.e. are not already markup) and carry at least one trigger
// character. An Aho-Corasick automaton built over the full trigger catalog
// finds every exact-match occurrence in one pass; the original's
// character-by-character scan is unnecessary once the automaton is built
// once at init.
func ExpandEmoticons(body string) string {
	if strings.Contains(body, "<") || !containsEmoticonTrigger(body) {
		return body
	}

	matches := emoticonAutomaton.FindAllOverlapping([]byte(body))
	if len(matches) == 0 {
		return body
	}
	// Prefer earliest, then longest match when overlapping candidates start
	// at the same position.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		return matches[i].End > matches[j].End
	})

	var out strings.Builder
	pos := 0
	for _, m := range matches {
		if m.Start < pos {
			continue // overlaps a match already emitted
		}
		trigger := body[m.Start:m.End]
		emo, ok := emoticonByString[trigger]
		if !ok {
			continue
		}
		// Must not straddle a common HTML entity like &quot;.
		if straddlesEntity(body, m.Start, m.End) {
			continue
		}
		rest := body[m.End:]
		if !trailingPunct.MatchString(rest) && !startsWithAnyTrigger(rest) {
			continue
		}
		out.WriteString(body[pos:m.Start])
		out.WriteString(`<ss type="`)
		out.WriteString(emo.Name)
		out.WriteString(`">`)
		out.WriteString(trigger)
		out.WriteString(`</ss>`)
		pos = m.End
	}
	out.WriteString(body[pos:])
	return out.String()
}

func startsWithAnyTrigger(rest string) bool {
	if rest == "" {
		return true
	}
	matches := emoticonAutomaton.FindAllOverlapping([]byte(rest))
	for _, m := range matches {
		if m.Start == 0 {
			return true
		}
	}
	return false
}

var entityBoundary = regexp.MustCompile(`&[a-zA-Z]+;`)

// straddlesEntity reports whether the byte range [start,end) of body
// overlaps a recognized HTML entity such as &quot;.
func straddlesEntity(body string, start, end int) bool {
	for _, loc := range entityBoundary.FindAllStringIndex(body, -1) {
		if start < loc[1] && end > loc[0] {
			return true
		}
	}
	return false
}
