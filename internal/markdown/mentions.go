package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SpecialMentions are highlighted whenever at least one mention key is
// configured.
var SpecialMentions = []string{"@here", "@all", "@channel"}

type mentionKey struct {
	key string

	// CJK keys are matched anywhere since those scripts do not separate
	// words with spaces.
	anywhere bool
}

// MentionMatcher finds mention keys in text. Keys are matched without
// regard to case and only on word boundaries.
type MentionMatcher struct {
	keys []mentionKey

	// IsWordRune decides which runes belong to a word. A key only matches
	// if the runes directly before and after it are not word runes.
	IsWordRune func(r rune) bool
}

// NewMentionMatcher creates a matcher for keys. Blank keys are ignored and
// SpecialMentions are added if any key remains.
func NewMentionMatcher(keys []string) *MentionMatcher {
	m := &MentionMatcher{
		IsWordRune: DefaultIsWordRune,
	}

	seen := make(map[string]struct{})
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k == "" {
			return
		}

		lower := strings.ToLower(k)
		if _, ok := seen[lower]; ok {
			return
		}
		seen[lower] = struct{}{}

		m.keys = append(m.keys, mentionKey{
			key:      k,
			anywhere: containsCJK(k),
		})
	}

	for _, k := range keys {
		add(k)
	}

	if len(m.keys) == 0 {
		return m
	}

	for _, k := range SpecialMentions {
		add(k)
	}

	return m
}

// DefaultIsWordRune treats letters, digits and underscores as word runes.
func DefaultIsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (m *MentionMatcher) Empty() bool {
	return m == nil || len(m.keys) == 0
}

// FindFirst returns the byte range of the first mention in s. If more than
// one key matches at the same position the longest match wins.
func (m *MentionMatcher) FindFirst(s string) (start, end int, ok bool) {
	return m.FindFirstAfter(s, utf8.RuneError)
}

// FindFirstAfter is like FindFirst for an s that directly follows the rune
// prev. Word bound keys do not match at the start of s if prev is a word
// rune.
func (m *MentionMatcher) FindFirstAfter(s string, prev rune) (start, end int, ok bool) {
	if m.Empty() {
		return 0, 0, false
	}

	for i, r := range s {
		for _, k := range m.keys {
			if !k.anywhere && m.isWord(prev) {
				continue
			}

			n := matchFold(s[i:], k.key)
			if n <= 0 {
				continue
			}

			if !k.anywhere && i+n < len(s) {
				next, _ := utf8.DecodeRuneInString(s[i+n:])
				if m.isWord(next) {
					continue
				}
			}

			if !ok || i+n > end {
				start, end, ok = i, i+n, true
			}
		}

		if ok {
			return start, end, true
		}

		prev = r
	}

	return 0, 0, false
}

// MatchesName reports whether the at-mention name matches one of the keys.
func (m *MentionMatcher) MatchesName(name string) bool {
	if m.Empty() {
		return false
	}

	name = strings.TrimSuffix(name, ".")
	for _, k := range m.keys {
		if strings.EqualFold(strings.TrimPrefix(k.key, "@"), name) {
			return true
		}
	}

	return false
}

func (m *MentionMatcher) isWord(r rune) bool {
	if m.IsWordRune == nil {
		return DefaultIsWordRune(r)
	}

	return m.IsWordRune(r)
}

// matchFold returns the number of bytes of s matched by key, comparing
// without regard to case, or -1.
func matchFold(s, key string) int {
	n := 0
	for _, kr := range key {
		if n >= len(s) {
			return -1
		}

		sr, sz := utf8.DecodeRuneInString(s[n:])
		if sr != kr && unicode.ToLower(sr) != unicode.ToLower(kr) {
			return -1
		}

		n += sz
	}

	return n
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}

	return false
}
