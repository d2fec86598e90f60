// Package moderation hides offensive words in participant names before they
// are shown on the shared board.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator matches every censored word in a single pass over the name.
// Matching ignores case, punctuation, spaces and common leet substitutions,
// so "B.4.d" matches "bad".
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
}

// normalized is the searchable form of a name. origIdx[i] is the position in
// the original runes of normalized rune i.
type normalized struct {
	runes   []rune
	origIdx []int
}

func NewModerator(censoredWords []string, censoredChar rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		if p := normalize(word).runes; len(p) > 0 {
			patterns = append(patterns, p)
		}
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, censoredChar: censoredChar}, nil
}

// Censor replaces each matched word with censoredChar, keeping the length and
// the untouched characters of name.
func (m *Moderator) Censor(name string) string {
	norm := normalize(name)
	if len(norm.runes) == 0 {
		return name
	}
	terms := m.matcher.MultiPatternSearch(norm.runes, false)
	if len(terms) == 0 {
		return name
	}

	out := []rune(name)
	for _, term := range terms {
		start, end := term.Pos, term.Pos+len(term.Word)
		if start < 0 || end > len(norm.origIdx) {
			continue
		}
		for i := norm.origIdx[start]; i <= norm.origIdx[end-1]; i++ {
			out[i] = m.censoredChar
		}
	}
	return string(out)
}

func normalize(input string) normalized {
	orig := []rune(input)
	n := normalized{
		runes:   make([]rune, 0, len(orig)),
		origIdx: make([]int, 0, len(orig)),
	}
	for i, r := range orig {
		clean := unleet(r)
		if unicode.IsPunct(clean) || unicode.IsSpace(clean) || unicode.IsSymbol(clean) {
			continue
		}
		n.runes = append(n.runes, unicode.ToLower(clean))
		n.origIdx = append(n.origIdx, i)
	}
	return n
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
