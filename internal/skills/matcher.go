package skills

import (
	"regexp"
	"strings"
)

// boundary characters around short tokens; & + # - are deliberately absent
// so "r&d" and "c++" do not count as "r" or "c".
const boundaryClass = `[\s,.;:!?()\[\]{}/\\"'|]`

// Matcher finds registered skills in posting text. Most tokens match as
// plain substrings. Tokens of two characters or fewer, and any listed in
// WordBoundary, must stand alone between boundary characters.
type Matcher struct {
	reg      *Registry
	patterns map[string]*regexp.Regexp
}

func NewMatcher(reg *Registry, wordBoundary []string) *Matcher {
	force := map[string]bool{}
	for _, w := range wordBoundary {
		force[strings.ToLower(strings.TrimSpace(w))] = true
	}

	m := &Matcher{reg: reg, patterns: map[string]*regexp.Regexp{}}
	for _, tok := range reg.Tokens() {
		if len([]rune(tok)) <= 2 || force[tok] {
			m.patterns[tok] = regexp.MustCompile(`(?:^|` + boundaryClass + `)` + regexp.QuoteMeta(tok) + `(?:$|` + boundaryClass + `)`)
		}
	}
	return m
}

// Match returns the skills present in text, in registry order, and bumps
// each one's count once.
func (m *Matcher) Match(text string) []string {
	text = strings.ToLower(text)

	var found []string
	for _, tok := range m.reg.Tokens() {
		if m.matches(tok, text) {
			found = append(found, tok)
			m.reg.Increment(tok)
		}
	}
	return found
}

func (m *Matcher) matches(tok, text string) bool {
	if re, ok := m.patterns[tok]; ok {
		return re.MatchString(text)
	}
	return strings.Contains(text, tok)
}

func (m *Matcher) Registry() *Registry { return m.reg }
