package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer() *Renderer[string] {
	join := func(children []string) string {
		return strings.Join(children, "")
	}

	return &Renderer[string]{
		Text: func(p Props[string]) string {
			return p.Literal
		},
		Fragment: join,
		Rules: Rules[string]{
			TypeParagraph: func(p Props[string]) string {
				return "<p>" + join(p.Children) + "</p>"
			},
			TypeStrong: func(p Props[string]) string {
				return "*" + join(p.Children) + "*"
			},
			TypeAtMention: func(p Props[string]) string {
				return "[user:" + p.Node.MentionName + "]"
			},
			TypeHashtag: func(p Props[string]) string {
				return "[tag:" + p.Node.Hashtag + "]"
			},
		},
	}
}

func TestRendererDispatch(t *testing.T) {
	root := paragraph(
		NewText("hi "),
		&Node{Type: TypeAtMention, MentionName: "bob"},
		NewText(" "),
		NewNode(TypeStrong, NewText("see")),
		NewText(" "),
		&Node{Type: TypeHashtag, Hashtag: "vet"},
	)

	r := testRenderer()

	assert.Equal(t, "<p>hi [user:bob] *see* [tag:vet]</p>", r.Render(root, Features{}))

	t.Run("disabled features render as text", func(t *testing.T) {
		out := r.Render(root, Features{
			DisableAtMentions: true,
			DisableHashtags:   true,
		})

		assert.Equal(t, "<p>hi @bob *see* #vet</p>", out)
	})

	t.Run("containers without a rule", func(t *testing.T) {
		root := NewNode(TypeDocument, NewNode(TypeBlockQuote, NewNode(TypeParagraph, NewText("q"))))

		assert.Equal(t, "<p>q</p>", r.Render(root, Features{}))
	})

	t.Run("leaves without a rule", func(t *testing.T) {
		root := paragraph(&Node{Type: TypeChannelLink, ChannelName: "general"}, &Node{Type: TypeSoftBreak})

		assert.Equal(t, "<p>~general\n</p>", r.Render(root, Features{}))
	})
}

func TestRendererContext(t *testing.T) {
	var (
		contexts [][]NodeType
		firsts   []bool
	)

	r := &Renderer[string]{
		Text: func(p Props[string]) string {
			contexts = append(contexts, p.Context)
			firsts = append(firsts, p.First)

			return p.Literal
		},
	}

	root := NewNode(TypeDocument,
		NewNode(TypeBlockQuote,
			NewNode(TypeParagraph, NewText("a"), NewNode(TypeEmph, NewText("b"))),
			NewNode(TypeParagraph, NewText("c")),
		),
	)

	r.Render(root, Features{})

	require.Len(t, contexts, 3)
	assert.Equal(t, []NodeType{TypeBlockQuote, TypeParagraph}, contexts[0])
	assert.Equal(t, []NodeType{TypeBlockQuote, TypeParagraph, TypeEmph}, contexts[1])
	assert.Equal(t, []NodeType{TypeBlockQuote, TypeParagraph}, contexts[2])
	assert.Equal(t, []bool{true, true, true}, firsts)
}

func TestPropsContext(t *testing.T) {
	p := Props[string]{
		Context: []NodeType{TypeList, TypeItem, TypeList, TypeItem},
	}

	assert.True(t, p.InContext(TypeList))
	assert.False(t, p.InContext(TypeTable))
	assert.Equal(t, 2, p.CountContext(TypeItem))
}

func TestRenderCaption(t *testing.T) {
	var captionCtx []NodeType

	r := &Renderer[string]{
		Text: func(p Props[string]) string {
			captionCtx = p.Context
			return p.Literal
		},
		Rules: Rules[string]{
			TypeImage: func(p Props[string]) string {
				return "img(" + strings.Join(p.Caption, "") + ")"
			},
			TypeParagraph: func(p Props[string]) string {
				return strings.Join(p.Children, "")
			},
		},
	}

	root := PullOutImages(paragraph(&Node{
		Type:     TypeImage,
		Children: []*Node{NewText("cat")},
	}))

	assert.Equal(t, "img(cat)", r.Render(root, Features{}))
	assert.Equal(t, []NodeType{TypeParagraph, TypeImage}, captionCtx)
}
