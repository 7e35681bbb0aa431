package hashtags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func parse(t *testing.T, ext *Extender, src string) []string {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(ext))
	doc := md.Parser().Parse(text.NewReader([]byte(src)))

	var result []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if v, ok := n.(*Node); ok && entering {
			result = append(result, string(v.Tag))
		}

		return ast.WalkContinue, nil
	})
	require.NoError(t, err)

	return result
}

func TestParseHashtags(t *testing.T) {
	cases := []struct {
		input    string
		expected []string
	}{
		{"some #golang code", []string{"golang"}},
		{"#go.dev.", []string{"go.dev"}},
		{"#one and #two", []string{"one", "two"}},
		{"#ab is too short", nil},
		{"#123 starts with a digit", nil},
		{"foo#bar", nil},
		{"&#1234;", nil},
		{"#über", []string{"über"}},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			tags := parse(t, &Extender{}, c.input)

			if c.expected == nil {
				assert.Empty(t, tags)
				return
			}

			assert.Equal(t, c.expected, tags)
		})
	}
}

func TestMinimumLength(t *testing.T) {
	assert.Equal(t, []string{"ab"}, parse(t, &Extender{MinimumLength: 2}, "#ab"))
	assert.Empty(t, parse(t, &Extender{MinimumLength: 5}, "#abcd"))
}
