package column

import (
	"strings"
	"sync"

	"github.com/grafana/regexp"
)

// PatternMatcher matches a value against a SQL LIKE pattern. value and
// pattern are the raw bytes/string of the column view and the constraint
// respectively. The column only calls Match for non-null cells and a
// String-typed constraint value.
type PatternMatcher interface {
	Match(value, pattern string) bool
}

// RegexPatternMatcher implements SQL LIKE by translating the pattern
// (`%` any run, `_` any single char, `\` escapes the next char) into an
// anchored regular expression and matching with grafana/regexp, a
// stdlib-regexp-compatible engine already present in the pack's
// dependency graph.
type RegexPatternMatcher struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewRegexPatternMatcher returns a PatternMatcher backed by grafana/regexp.
func NewRegexPatternMatcher() *RegexPatternMatcher {
	return &RegexPatternMatcher{cache: make(map[string]*regexp.Regexp)}
}

func (m *RegexPatternMatcher) Match(value, pattern string) bool {
	re, err := m.compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

func (m *RegexPatternMatcher) compile(pattern string) (*regexp.Regexp, error) {
	m.mu.Lock()
	if re, ok := m.cache[pattern]; ok {
		m.mu.Unlock()
		return re, nil
	}
	m.mu.Unlock()

	re, err := regexp.Compile(likeToRegex(pattern))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[pattern] = re
	m.mu.Unlock()
	return re, nil
}

// likeToRegex translates a SQL LIKE pattern to an anchored regex. `%`
// becomes `.*`, `_` becomes `.`, `\` escapes the following character
// literally, and every other regex metacharacter is escaped.
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteByte('$')
	return b.String()
}
