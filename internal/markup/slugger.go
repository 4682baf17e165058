package markup

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slug lowercases value, drops everything that is not a letter, number,
// mark, hyphen, underscore or space, and turns spaces into hyphens.
func Slug(value string) string {
	return slug(cases.Lower(language.Und), value)
}

func slug(lower cases.Caser, value string) string {
	value = lower.String(value)
	var sb strings.Builder
	sb.Grow(len(value))
	for _, r := range value {
		switch {
		case r == ' ':
			sb.WriteByte('-')
		case r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Slugger hands out unique slugs within one document. A repeated base slug
// gets the smallest "-N" suffix that is still free. Not safe for concurrent use.
type Slugger struct {
	lower       cases.Caser
	occurrences map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{
		lower:       cases.Lower(language.Und),
		occurrences: make(map[string]int),
	}
}

// Slug returns a slug for value that this Slugger has not returned before.
func (s *Slugger) Slug(value string) string {
	base := slug(s.lower, value)
	result := base
	for {
		if _, taken := s.occurrences[result]; !taken {
			break
		}
		s.occurrences[base]++
		result = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[result] = 0
	return result
}

// Reserve marks id as taken without deriving it.
func (s *Slugger) Reserve(id string) {
	if _, taken := s.occurrences[id]; !taken {
		s.occurrences[id] = 0
	}
}

// Reset forgets every slug handed out so far.
func (s *Slugger) Reset() {
	clear(s.occurrences)
}
