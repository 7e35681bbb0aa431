// Package term renders document trees as styled terminal text.
package term

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
)

type Styles struct {
	// Base is the style of plain text.
	Base lipgloss.Style

	// Text holds the style applied to text nested inside a node of the
	// given type. Styles of deeper ancestors take precedence.
	Text map[markdown.NodeType]lipgloss.Style

	Code        lipgloss.Style
	Link        lipgloss.Style
	Mention     lipgloss.Style
	Heading     lipgloss.Style
	Quote       lipgloss.Style
	Edited      lipgloss.Style
	ThematicBar lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Base: lipgloss.NewStyle(),
		Text: map[markdown.NodeType]lipgloss.Style{
			markdown.TypeEmph:             lipgloss.NewStyle().Italic(true),
			markdown.TypeStrong:           lipgloss.NewStyle().Bold(true),
			markdown.TypeDel:              lipgloss.NewStyle().Strikethrough(true),
			markdown.TypeLink:             lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
			markdown.TypeHeading:          lipgloss.NewStyle().Bold(true),
			markdown.TypeMentionHighlight: lipgloss.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")),
		},
		Code:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Link:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Mention:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Bold(true),
		Quote:       lipgloss.NewStyle().Faint(true),
		Edited:      lipgloss.NewStyle().Faint(true),
		ThematicBar: lipgloss.NewStyle().Faint(true),
	}
}

type rules struct {
	styles Styles
}

// New returns a renderer producing terminal output styled with styles.
func New(styles Styles) *markdown.Renderer[string] {
	r := &rules{styles: styles}

	return &markdown.Renderer[string]{
		Text: r.text,
		Fragment: func(children []string) string {
			return strings.Join(children, "")
		},
		Rules: markdown.Rules[string]{
			markdown.TypeDocument:        joinWith("\n\n"),
			markdown.TypeText:            r.text,
			markdown.TypeCode:            r.code,
			markdown.TypeLink:            r.link,
			markdown.TypeImage:           r.image,
			markdown.TypeAtMention:       r.mention,
			markdown.TypeChannelLink:     r.mention,
			markdown.TypeHashtag:         r.mention,
			markdown.TypeEmoji:           r.emoji,
			markdown.TypeParagraph:       join,
			markdown.TypeHeading:         r.heading,
			markdown.TypeCodeBlock:       r.codeBlock,
			markdown.TypeBlockQuote:      r.blockQuote,
			markdown.TypeList:            joinWith("\n"),
			markdown.TypeItem:            r.item,
			markdown.TypeHardBreak:       constant("\n"),
			markdown.TypeSoftBreak:       constant("\n"),
			markdown.TypeThematicBreak:   r.thematicBreak,
			markdown.TypeHTMLBlock:       r.text,
			markdown.TypeHTMLInline:      r.text,
			markdown.TypeTable:           joinWith("\n"),
			markdown.TypeTableRow:        joinWith(" │ "),
			markdown.TypeTableCell:       join,
			markdown.TypeEditedIndicator: r.editedIndicator,
		},
	}
}

func join(p markdown.Props[string]) string {
	return strings.Join(p.Children, "")
}

func joinWith(sep string) markdown.Rule[string] {
	return func(p markdown.Props[string]) string {
		return strings.Join(p.Children, sep)
	}
}

func constant(s string) markdown.Rule[string] {
	return func(markdown.Props[string]) string {
		return s
	}
}

// textStyle layers the styles of all ancestors over the base style.
func (r *rules) textStyle(context []markdown.NodeType) lipgloss.Style {
	style := r.styles.Base
	for _, t := range context {
		if s, ok := r.styles.Text[t]; ok {
			style = s.Inherit(style)
		}
	}

	return style
}

func (r *rules) text(p markdown.Props[string]) string {
	if p.Literal == "" {
		return ""
	}

	return r.textStyle(p.Context).Render(p.Literal)
}

func (r *rules) code(p markdown.Props[string]) string {
	return r.styles.Code.Inherit(r.textStyle(p.Context)).Render(p.Literal)
}

func (r *rules) link(p markdown.Props[string]) string {
	label := strings.Join(p.Children, "")

	dest := p.Node.Destination
	if markdown.TextContent(p.Node) == dest || dest == "" {
		return label
	}

	return label + " (" + r.styles.Link.Render(dest) + ")"
}

func (r *rules) image(p markdown.Props[string]) string {
	caption := strings.Join(p.Caption, "")
	if caption == "" {
		caption = "image"
	}

	return "[" + caption + "](" + r.styles.Link.Render(p.Node.Destination) + ")"
}

func (r *rules) mention(p markdown.Props[string]) string {
	label := p.Node.CanonicalText()
	if p.Node.DisplayName != "" {
		label = "@" + p.Node.DisplayName
	}

	return r.styles.Mention.Inherit(r.textStyle(p.Context)).Render(label)
}

func (r *rules) emoji(p markdown.Props[string]) string {
	if p.Node.EmojiUnicode != "" {
		return p.Node.EmojiUnicode
	}

	return r.text(markdown.Props[string]{
		Literal: p.Node.CanonicalText(),
		Context: p.Context,
	})
}

func (r *rules) heading(p markdown.Props[string]) string {
	prefix := strings.Repeat("#", max(p.Node.Level, 1)) + " "

	return r.styles.Heading.Render(prefix) + strings.Join(p.Children, "")
}

func (r *rules) codeBlock(p markdown.Props[string]) string {
	lines := strings.Split(strings.TrimSuffix(p.Literal, "\n"), "\n")
	for idx, l := range lines {
		lines[idx] = "    " + r.styles.Code.Render(l)
	}

	return strings.Join(lines, "\n")
}

func (r *rules) blockQuote(p markdown.Props[string]) string {
	lines := strings.Split(strings.Join(p.Children, "\n"), "\n")
	for idx, l := range lines {
		lines[idx] = r.styles.Quote.Render("│ ") + l
	}

	return strings.Join(lines, "\n")
}

func (r *rules) item(p markdown.Props[string]) string {
	bullet := "• "
	if p.Node.Ordered {
		bullet = strconv.Itoa(p.Node.Number) + ". "
	}

	// nested blocks, including nested lists, are indented below the bullet
	body := strings.Join(p.Children, "\n")
	body = strings.ReplaceAll(body, "\n", "\n"+strings.Repeat(" ", lipgloss.Width(bullet)))

	return bullet + body
}

func (r *rules) thematicBreak(markdown.Props[string]) string {
	return r.styles.ThematicBar.Render(strings.Repeat("─", 20))
}

func (r *rules) editedIndicator(p markdown.Props[string]) string {
	// separate the indicator from preceding content of the same block
	spacer := ""
	if !p.First {
		spacer = " "
	}

	return spacer + r.styles.Edited.Render("(edited)")
}
