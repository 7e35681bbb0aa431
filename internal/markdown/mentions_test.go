package markdown

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionMatcher(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		m := NewMentionMatcher([]string{"", "  "})

		assert.True(t, m.Empty())

		_, _, ok := m.FindFirst("@here and @all")
		assert.False(t, ok, "special mentions require at least one key")
	})

	t.Run("word boundaries", func(t *testing.T) {
		m := NewMentionMatcher([]string{"bob"})

		start, end, ok := m.FindFirst("hey Bob!")
		assert.True(t, ok)
		assert.Equal(t, "Bob", "hey Bob!"[start:end])

		_, _, ok = m.FindFirst("bobby and kebob")
		assert.False(t, ok)
	})

	t.Run("longest match wins", func(t *testing.T) {
		m := NewMentionMatcher([]string{"alice", "alice.smith"})

		s := "ping alice.smith now"
		start, end, ok := m.FindFirst(s)
		assert.True(t, ok)
		assert.Equal(t, "alice.smith", s[start:end])
	})

	t.Run("special mentions", func(t *testing.T) {
		m := NewMentionMatcher([]string{"bob"})

		s := "hi @channel"
		start, end, ok := m.FindFirst(s)
		assert.True(t, ok)
		assert.Equal(t, "@channel", s[start:end])
	})

	t.Run("cjk keys ignore boundaries", func(t *testing.T) {
		m := NewMentionMatcher([]string{"田中"})

		s := "こんにちは田中さん"
		start, end, ok := m.FindFirst(s)
		assert.True(t, ok)
		assert.Equal(t, "田中", s[start:end])
	})

	t.Run("custom word runes", func(t *testing.T) {
		m := NewMentionMatcher([]string{"bob"})
		m.IsWordRune = func(r rune) bool {
			return unicode.IsLetter(r) || r == '-'
		}

		_, _, ok := m.FindFirst("bob-the-builder")
		assert.False(t, ok)

		_, _, ok = m.FindFirst("bob_the_builder")
		assert.True(t, ok)
	})

	t.Run("preceding rune", func(t *testing.T) {
		m := NewMentionMatcher([]string{"bob"})

		_, _, ok := m.FindFirstAfter("bob", 'x')
		assert.False(t, ok)

		start, end, ok := m.FindFirstAfter("bob", ' ')
		require.True(t, ok)
		assert.Equal(t, 0, start)
		assert.Equal(t, 3, end)
	})

	t.Run("names", func(t *testing.T) {
		m := NewMentionMatcher([]string{"@Alice"})

		assert.True(t, m.MatchesName("alice"))
		assert.True(t, m.MatchesName("alice."))
		assert.False(t, m.MatchesName("alicia"))
	})
}
