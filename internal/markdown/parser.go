package markdown

import (
	"bytes"
	"context"
	"strings"

	"github.com/tierklinik-dobersberg/markdown-service/internal/goldmark-extensions/channellinks"
	"github.com/tierklinik-dobersberg/markdown-service/internal/goldmark-extensions/hashtags"
	"github.com/tierklinik-dobersberg/markdown-service/internal/goldmark-extensions/mentions"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Parser turns message text into a document tree. Implementations must not
// fail: malformed markdown degrades to literal text.
type Parser interface {
	Parse(src string) *Node
}

type ParserOptions struct {
	// URLFilter decides which URLs are autolinked. Nil accepts all URLs.
	URLFilter URLFilter

	// MinimumHashtagLength is the minimum number of characters of a
	// hashtag, excluding the leading '#'.
	MinimumHashtagLength int

	// MentionResolver is optional and resolves at-mentions to user
	// profiles.
	MentionResolver mentions.Resolver

	// Context is used for logging from within the parser.
	Context context.Context
}

// GoldmarkParser is a Parser backed by goldmark with the GFM table,
// strikethrough and linkify extensions plus chat specific inline syntax.
type GoldmarkParser struct {
	md        goldmark.Markdown
	urlFilter URLFilter
}

func NewParser(opts ParserOptions) *GoldmarkParser {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
			emoji.Emoji,
			&mentions.Extender{
				Context:  ctx,
				Resolver: opts.MentionResolver,
			},
			&channellinks.Extender{},
			&hashtags.Extender{
				MinimumLength: opts.MinimumHashtagLength,
			},
		),
	)

	return &GoldmarkParser{
		md:        md,
		urlFilter: opts.URLFilter,
	}
}

func (p *GoldmarkParser) Parse(src string) *Node {
	source := []byte(src)

	doc := p.md.Parser().Parse(text.NewReader(source))

	c := converter{
		src:       source,
		urlFilter: p.urlFilter,
	}

	root := NewNode(TypeDocument)
	root.Children = c.children(doc)

	return root
}

type converter struct {
	src       []byte
	urlFilter URLFilter
}

func (c *converter) children(n ast.Node) []*Node {
	var result []*Node

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		result = append(result, c.convert(child)...)
	}

	return result
}

// convert maps a goldmark node to one or more document nodes. Text nodes
// that end a line yield an additional break node.
func (c *converter) convert(n ast.Node) []*Node {
	switch v := n.(type) {
	case *ast.Text:
		value := v.Segment.Value(c.src)
		if !v.IsRaw() {
			value = unescape(value)
		}

		nodes := []*Node{NewText(string(value))}

		switch {
		case v.HardLineBreak():
			nodes = append(nodes, NewNode(TypeHardBreak))
		case v.SoftLineBreak():
			nodes = append(nodes, NewNode(TypeSoftBreak))
		}

		return nodes

	case *ast.String:
		return []*Node{NewText(string(v.Value))}

	case *ast.CodeSpan:
		return []*Node{{
			Type:    TypeCode,
			Literal: c.plainText(v),
		}}

	case *ast.Emphasis:
		t := TypeEmph
		if v.Level >= 2 {
			t = TypeStrong
		}

		return []*Node{c.container(t, v)}

	case *ast.Link:
		node := c.container(TypeLink, v)
		node.Destination = string(unescape(v.Destination))
		node.Title = string(unescape(v.Title))

		return []*Node{node}

	case *ast.Image:
		node := c.container(TypeImage, v)
		node.Destination = string(unescape(v.Destination))
		node.Title = string(unescape(v.Title))

		return []*Node{node}

	case *ast.AutoLink:
		url := string(v.URL(c.src))
		label := string(v.Label(c.src))

		if v.AutoLinkType == ast.AutoLinkEmail {
			if !strings.HasPrefix(strings.ToLower(url), "mailto:") {
				url = "mailto:" + url
			}
		} else if c.urlFilter != nil && !c.urlFilter(url) {
			return []*Node{NewText(label)}
		}

		return []*Node{{
			Type:        TypeLink,
			Destination: url,
			Children:    []*Node{NewText(label)},
		}}

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(c.src))
		}

		return []*Node{{
			Type:    TypeHTMLInline,
			Literal: buf.String(),
		}}

	case *east.Strikethrough:
		return []*Node{c.container(TypeDel, v)}

	case *emojiast.Emoji:
		node := &Node{
			Type:      TypeEmoji,
			EmojiName: string(v.ShortName),
			Literal:   ":" + string(v.ShortName) + ":",
		}
		if v.Value != nil {
			node.EmojiUnicode = string(v.Value.Unicode)
		}

		return []*Node{node}

	case *mentions.Node:
		node := &Node{
			Type:        TypeAtMention,
			MentionName: string(v.Name),
			DisplayName: v.DisplayName(),
		}
		if v.Profile != nil {
			node.UserID = v.Profile.GetUser().GetId()
		}

		return []*Node{node}

	case *channellinks.Node:
		return []*Node{{
			Type:        TypeChannelLink,
			ChannelName: string(v.Name),
		}}

	case *hashtags.Node:
		return []*Node{{
			Type:    TypeHashtag,
			Hashtag: string(v.Tag),
		}}

	// blocks

	case *ast.Paragraph:
		return []*Node{c.container(TypeParagraph, v)}

	case *ast.TextBlock:
		// goldmark uses text blocks for the paragraphs of tight lists
		node := c.container(TypeParagraph, v)
		node.Tight = true

		return []*Node{node}

	case *ast.Heading:
		node := c.container(TypeHeading, v)
		node.Level = v.Level

		return []*Node{node}

	case *ast.FencedCodeBlock:
		return []*Node{{
			Type:     TypeCodeBlock,
			Literal:  c.lines(v),
			Language: string(v.Language(c.src)),
		}}

	case *ast.CodeBlock:
		return []*Node{{
			Type:    TypeCodeBlock,
			Literal: c.lines(v),
		}}

	case *ast.Blockquote:
		return []*Node{c.container(TypeBlockQuote, v)}

	case *ast.List:
		node := c.container(TypeList, v)
		node.Ordered = v.IsOrdered()
		node.Tight = v.IsTight
		node.Start = 1
		if node.Ordered {
			node.Start = v.Start
		}

		return []*Node{node}

	case *ast.ListItem:
		return []*Node{c.container(TypeItem, v)}

	case *ast.ThematicBreak:
		return []*Node{NewNode(TypeThematicBreak)}

	case *ast.HTMLBlock:
		literal := c.lines(v)
		if v.HasClosure() {
			literal += string(v.ClosureLine.Value(c.src))
		}

		return []*Node{{
			Type:    TypeHTMLBlock,
			Literal: literal,
			IsBlock: true,
		}}

	case *east.Table:
		node := c.container(TypeTable, v)
		node.NumColumns = len(v.Alignments)

		return []*Node{node}

	case *east.TableHeader:
		node := c.container(TypeTableRow, v)
		node.IsHeader = true
		for _, cell := range node.Children {
			cell.IsHeader = true
		}

		return []*Node{node}

	case *east.TableRow:
		return []*Node{c.container(TypeTableRow, v)}

	case *east.TableCell:
		node := c.container(TypeTableCell, v)
		node.Align = v.Alignment.String()

		return []*Node{node}
	}

	// Unknown node kinds keep their children so the dispatcher can still
	// render their content.
	node := c.container(NodeType(strings.ToLower(n.Kind().String())), n)
	if node.IsLeaf() {
		node.Literal = c.plainText(n)
	}

	return []*Node{node}
}

func (c *converter) container(t NodeType, n ast.Node) *Node {
	return &Node{
		Type:     t,
		Children: c.children(n),
	}
}

func (c *converter) lines(n ast.Node) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}

	return buf.String()
}

// unescape resolves backslash escapes as well as numeric and named
// character references.
func unescape(b []byte) []byte {
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)

	return util.UnescapePunctuations(b)
}

// plainText collects the raw text below n. Code span content is kept as
// written, everything else has its escapes resolved.
func (c *converter) plainText(n ast.Node) string {
	var buf bytes.Buffer

	if n.Type() == ast.TypeBlock {
		buf.WriteString(c.lines(n))
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			value := v.Segment.Value(c.src)
			if !v.IsRaw() && n.Kind() != ast.KindCodeSpan {
				value = unescape(value)
			}
			buf.Write(value)
		case *ast.String:
			buf.Write(v.Value)
		default:
			buf.WriteString(c.plainText(child))
		}
	}

	return buf.String()
}
