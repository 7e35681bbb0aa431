package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Node {
	t.Helper()

	root := NewParser(ParserOptions{
		URLFilter: NewURLFilter([]string{"http", "https", "mailto"}),
	}).Parse(src)

	require.NotNil(t, root)
	require.Equal(t, TypeDocument, root.Type)

	return CombineTextNodes(root)
}

// types returns the types of all nodes below root in document order.
func types(root *Node) []NodeType {
	var result []NodeType

	for _, c := range root.Children {
		Walk(c, func(n *Node) bool {
			result = append(result, n.Type)
			return true
		})
	}

	return result
}

func TestParseInline(t *testing.T) {
	root := parse(t, "hello *world* and **bold** ~~gone~~ `code`")

	require.Len(t, root.Children, 1)
	p := root.Children[0]

	assert.Equal(t, TypeParagraph, p.Type)
	assert.Equal(t, []NodeType{
		TypeParagraph,
		TypeText, TypeEmph, TypeText,
		TypeText, TypeStrong, TypeText,
		TypeText, TypeDel, TypeText,
		TypeText, TypeCode,
	}, types(root))

	assert.Equal(t, "hello ", p.Children[0].Literal)
	assert.Equal(t, "code", p.LastChild().Literal)
}

func TestParseChatSyntax(t *testing.T) {
	root := parse(t, "@alice see ~town-square about #surgery :smile:")

	var (
		mention *Node
		channel *Node
		tag     *Node
		emoji   *Node
	)

	Walk(root, func(n *Node) bool {
		switch n.Type {
		case TypeAtMention:
			mention = n
		case TypeChannelLink:
			channel = n
		case TypeHashtag:
			tag = n
		case TypeEmoji:
			emoji = n
		}

		return true
	})

	require.NotNil(t, mention)
	assert.Equal(t, "alice", mention.MentionName)

	require.NotNil(t, channel)
	assert.Equal(t, "town-square", channel.ChannelName)

	require.NotNil(t, tag)
	assert.Equal(t, "surgery", tag.Hashtag)

	require.NotNil(t, emoji)
	assert.Equal(t, "smile", emoji.EmojiName)
	assert.Equal(t, "😄", emoji.EmojiUnicode)
}

func TestParseBreaks(t *testing.T) {
	root := parse(t, "first\nsecond")

	p := root.Children[0]
	require.Len(t, p.Children, 3)
	assert.Equal(t, TypeSoftBreak, p.Children[1].Type)
	assert.Equal(t, "first\nsecond", p.CanonicalText())
}

func TestParseLists(t *testing.T) {
	root := parse(t, "5. five\n6. six\n7. seven\n")
	AddListItemIndices(root)

	require.Len(t, root.Children, 1)
	list := root.Children[0]

	assert.Equal(t, TypeList, list.Type)
	assert.True(t, list.Ordered)
	assert.Equal(t, 5, list.Start)
	require.Len(t, list.Children, 3)

	for idx, item := range list.Children {
		assert.Equal(t, idx, item.Index)
		assert.Equal(t, 5+idx, item.Number)
	}

	root = parse(t, "- a\n- b\n")
	list = root.Children[0]
	assert.False(t, list.Ordered)
	assert.Equal(t, 1, list.Start)
	assert.True(t, list.Tight)

	para := list.Children[0].Children[0]
	assert.Equal(t, TypeParagraph, para.Type)
	assert.True(t, para.Tight)

	root = parse(t, "- a\n\n- b\n")
	list = root.Children[0]
	assert.False(t, list.Tight)
	assert.False(t, list.Children[0].Children[0].Tight)
}

func TestParseBlocks(t *testing.T) {
	root := parse(t, "# Title\n\n> quoted\n\n```go\nx := 1\n```\n\n---\n")

	require.Len(t, root.Children, 4)

	assert.Equal(t, TypeHeading, root.Children[0].Type)
	assert.Equal(t, 1, root.Children[0].Level)

	assert.Equal(t, TypeBlockQuote, root.Children[1].Type)

	code := root.Children[2]
	assert.Equal(t, TypeCodeBlock, code.Type)
	assert.Equal(t, "go", code.Language)
	assert.Equal(t, "x := 1\n", code.Literal)

	assert.Equal(t, TypeThematicBreak, root.Children[3].Type)
}

func TestParseTable(t *testing.T) {
	root := parse(t, "| a | b |\n|:--|--:|\n| 1 | 2 |\n")

	require.Len(t, root.Children, 1)
	table := root.Children[0]

	assert.Equal(t, TypeTable, table.Type)
	assert.Equal(t, 2, table.NumColumns)
	require.Len(t, table.Children, 2)

	header := table.Children[0]
	assert.True(t, header.IsHeader)
	require.Len(t, header.Children, 2)
	assert.True(t, header.Children[0].IsHeader)
	assert.Equal(t, "left", header.Children[0].Align)
	assert.Equal(t, "right", header.Children[1].Align)

	assert.False(t, table.Children[1].IsHeader)
}

func TestParseLinks(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		root := parse(t, `[docs](https://example.com "Docs")`)

		link := root.Children[0].Children[0]
		assert.Equal(t, TypeLink, link.Type)
		assert.Equal(t, "https://example.com", link.Destination)
		assert.Equal(t, "Docs", link.Title)
	})

	t.Run("autolink", func(t *testing.T) {
		root := parse(t, "see https://example.com/path")

		var link *Node
		Walk(root, func(n *Node) bool {
			if n.Type == TypeLink {
				link = n
			}
			return true
		})

		require.NotNil(t, link)
		assert.Equal(t, "https://example.com/path", link.Destination)
	})

	t.Run("filtered scheme", func(t *testing.T) {
		root := parse(t, "<ftp://example.com/file>")

		assert.NotContains(t, types(root), TypeLink)
		assert.Equal(t, "ftp://example.com/file", TextContent(root))
	})

	t.Run("image", func(t *testing.T) {
		root := parse(t, "![a cat](cat.png)")

		img := root.Children[0].Children[0]
		assert.Equal(t, TypeImage, img.Type)
		assert.Equal(t, "cat.png", img.Destination)
		assert.Equal(t, "a cat", img.CanonicalText())
	})
}

func TestParseHTMLIsKept(t *testing.T) {
	root := parse(t, "a <b>bold</b> move")

	assert.Contains(t, types(root), TypeHTMLInline)
}

func TestParseEscapesAndEntities(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`1 \* 2`, "1 * 2"},
		{`\_not emphasis\_`, "_not emphasis_"},
		{"&copy; 2024", "© 2024"},
		{"a &amp; b", "a & b"},
		{"&#42;", "*"},
		{`\@bob`, "@bob"},
	}

	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			root := parse(t, c.src)

			assert.Equal(t, c.want, TextContent(root))
			assert.NotContains(t, types(root), TypeAtMention)
		})
	}

	t.Run("code span is verbatim", func(t *testing.T) {
		root := parse(t, "`\\* &amp;`")

		code := root.Children[0].Children[0]
		require.Equal(t, TypeCode, code.Type)
		assert.Equal(t, `\* &amp;`, code.Literal)
	})

	t.Run("link title", func(t *testing.T) {
		root := parse(t, `[x](https://example.com/a\_b "t &amp; u")`)

		link := root.Children[0].Children[0]
		require.Equal(t, TypeLink, link.Type)
		assert.Equal(t, "t & u", link.Title)
		assert.Equal(t, "https://example.com/a_b", link.Destination)
	})
}
