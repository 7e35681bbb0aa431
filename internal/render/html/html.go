// Package html renders document trees to HTML fragments.
package html

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

type Options struct {
	// ServerURL and SiteURL are used to detect links to channels and
	// permalinks of this server.
	ServerURL string
	SiteURL   string

	// ChannelMentions maps channel names to display names.
	ChannelMentions map[string]string

	// EditedLabel defaults to "(edited)".
	EditedLabel string
}

type rules struct {
	Options
}

// New returns a renderer producing HTML.
func New(opts Options) *markdown.Renderer[string] {
	if opts.EditedLabel == "" {
		opts.EditedLabel = "(edited)"
	}

	r := &rules{Options: opts}

	return &markdown.Renderer[string]{
		Text:     r.text,
		Fragment: join,
		Rules: markdown.Rules[string]{
			markdown.TypeText:             r.text,
			markdown.TypeEmph:             wrap("em"),
			markdown.TypeStrong:           wrap("strong"),
			markdown.TypeDel:              wrap("del"),
			markdown.TypeCode:             r.codeSpan,
			markdown.TypeLink:             r.link,
			markdown.TypeImage:            r.image,
			markdown.TypeAtMention:        r.atMention,
			markdown.TypeChannelLink:      r.channelLink,
			markdown.TypeEmoji:            r.emoji,
			markdown.TypeHashtag:          r.hashtag,
			markdown.TypeParagraph:        r.paragraph,
			markdown.TypeHeading:          r.heading,
			markdown.TypeCodeBlock:        r.codeBlock,
			markdown.TypeBlockQuote:       wrap("blockquote"),
			markdown.TypeList:             r.list,
			markdown.TypeItem:             wrap("li"),
			markdown.TypeHardBreak:        constant("<br>"),
			markdown.TypeSoftBreak:        constant("\n"),
			markdown.TypeThematicBreak:    constant("<hr>"),
			markdown.TypeHTMLBlock:        r.html,
			markdown.TypeHTMLInline:       r.html,
			markdown.TypeTable:            r.table,
			markdown.TypeTableRow:         wrap("tr"),
			markdown.TypeTableCell:        r.tableCell,
			markdown.TypeMentionHighlight: wrapClass("span", "mention-highlight"),
			markdown.TypeEditedIndicator:  r.editedIndicator,
		},
	}
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

func escapeURL(s string) string {
	return escape(string(util.URLEscape([]byte(s), false)))
}

func join(children []string) string {
	return strings.Join(children, "")
}

func wrap(tag string) markdown.Rule[string] {
	return func(p markdown.Props[string]) string {
		return "<" + tag + ">" + join(p.Children) + "</" + tag + ">"
	}
}

func wrapClass(tag, class string) markdown.Rule[string] {
	return func(p markdown.Props[string]) string {
		return `<` + tag + ` class="` + class + `">` + join(p.Children) + "</" + tag + ">"
	}
}

func constant(s string) markdown.Rule[string] {
	return func(markdown.Props[string]) string {
		return s
	}
}

func (r *rules) text(p markdown.Props[string]) string {
	return escape(p.Literal)
}

func (r *rules) codeSpan(p markdown.Props[string]) string {
	return "<code>" + escape(p.Literal) + "</code>"
}

// dangerous reports whether a link target may run script when followed.
func dangerous(href string) bool {
	return gmhtml.IsDangerousURL([]byte(strings.TrimSpace(href)))
}

func (r *rules) link(p markdown.Props[string]) string {
	href := markdown.NormalizeProtocol(p.Node.Destination)

	if dangerous(href) {
		return join(p.Children)
	}

	attrs := ` href="` + escapeURL(href) + `"`
	if p.Node.Title != "" {
		attrs += ` title="` + escape(p.Node.Title) + `"`
	}

	if dl := markdown.MatchDeepLink(href, r.ServerURL, r.SiteURL); dl != nil {
		switch dl.Type {
		case markdown.DeepLinkChannel:
			attrs += ` data-team="` + escape(dl.TeamName) + `" data-channel="` + escape(dl.ChannelName) + `"`
		case markdown.DeepLinkPermalink:
			attrs += ` data-team="` + escape(dl.TeamName) + `" data-permalink="` + escape(dl.PostID) + `"`
		}
	}

	return "<a" + attrs + ">" + join(p.Children) + "</a>"
}

func (r *rules) image(p markdown.Props[string]) string {
	dest := markdown.NormalizeProtocol(p.Node.Destination)

	var alt strings.Builder
	for _, c := range p.Node.Caption {
		alt.WriteString(c.CanonicalText())
	}

	if dangerous(dest) {
		return escape(alt.String())
	}

	src := escapeURL(dest)

	// images in tables are rendered as plain links
	if p.InContext(markdown.TypeTable) {
		return `<a class="table-image" href="` + src + `">` + join(p.Caption) + "</a>"
	}

	img := `<img src="` + src + `" alt="` + escape(alt.String()) + `"`
	if p.Node.Title != "" {
		img += ` title="` + escape(p.Node.Title) + `"`
	}

	return img + ">"
}

func (r *rules) atMention(p markdown.Props[string]) string {
	n := p.Node

	label := "@" + n.MentionName
	if n.DisplayName != "" {
		label = "@" + n.DisplayName
	}

	attrs := ` data-mention="` + escape(n.MentionName) + `"`
	if n.UserID != "" {
		attrs += ` data-user-id="` + escape(n.UserID) + `"`
	}

	return `<span class="mention"` + attrs + `>` + escape(label) + "</span>"
}

func (r *rules) channelLink(p markdown.Props[string]) string {
	name := p.Node.ChannelName

	label := "~" + name
	if display, ok := r.ChannelMentions[name]; ok && display != "" {
		label = "~" + display
	}

	return `<a class="channel-link" data-channel="` + escape(name) + `">` + escape(label) + "</a>"
}

func (r *rules) emoji(p markdown.Props[string]) string {
	content := p.Node.EmojiUnicode
	if content == "" {
		content = p.Node.CanonicalText()
	}

	return `<span class="emoji" data-emoji="` + escape(p.Node.EmojiName) + `">` + escape(content) + "</span>"
}

func (r *rules) hashtag(p markdown.Props[string]) string {
	tag := p.Node.Hashtag

	return `<a class="hashtag" data-hashtag="` + escape(tag) + `">#` + escape(tag) + "</a>"
}

func (r *rules) paragraph(p markdown.Props[string]) string {
	if len(p.Children) == 0 {
		return ""
	}

	if p.Node.Tight {
		return join(p.Children)
	}

	return "<p>" + join(p.Children) + "</p>"
}

func (r *rules) heading(p markdown.Props[string]) string {
	level := p.Node.Level
	if level < 1 || level > 6 {
		level = 1
	}

	return fmt.Sprintf("<h%d>%s</h%d>", level, join(p.Children), level)
}

func (r *rules) codeBlock(p markdown.Props[string]) string {
	content := strings.TrimSuffix(p.Literal, "\n")

	if lang := p.Node.Language; lang != "" {
		return `<pre><code class="language-` + escape(lang) + `">` + escape(content) + "</code></pre>"
	}

	return "<pre><code>" + escape(content) + "</code></pre>"
}

func (r *rules) list(p markdown.Props[string]) string {
	if !p.Node.Ordered {
		return "<ul>" + join(p.Children) + "</ul>"
	}

	if p.Node.Start != 1 {
		return `<ol start="` + strconv.Itoa(p.Node.Start) + `">` + join(p.Children) + "</ol>"
	}

	return "<ol>" + join(p.Children) + "</ol>"
}

// html renders raw HTML as text, it is never passed through.
func (r *rules) html(p markdown.Props[string]) string {
	if p.Node.IsBlock {
		return `<p class="html">` + escape(strings.TrimSuffix(p.Literal, "\n")) + "</p>"
	}

	return escape(p.Literal)
}

// table splits the header row from the body rows.
func (r *rules) table(p markdown.Props[string]) string {
	var head, body strings.Builder

	for idx, row := range p.Children {
		if p.Node.Children[idx].IsHeader {
			head.WriteString(row)
		} else {
			body.WriteString(row)
		}
	}

	out := "<table>"
	if head.Len() > 0 {
		out += "<thead>" + head.String() + "</thead>"
	}
	if body.Len() > 0 {
		out += "<tbody>" + body.String() + "</tbody>"
	}

	return out + "</table>"
}

func (r *rules) tableCell(p markdown.Props[string]) string {
	tag := "td"
	if p.Node.IsHeader {
		tag = "th"
	}

	attrs := ""
	if align := p.Node.Align; align != "" && align != "none" {
		attrs = ` style="text-align: ` + align + `"`
	}

	return "<" + tag + attrs + ">" + join(p.Children) + "</" + tag + ">"
}

func (r *rules) editedIndicator(p markdown.Props[string]) string {
	// separate the indicator from preceding content of the same block
	spacer := ""
	if !p.First {
		spacer = " "
	}

	return spacer + `<span class="edited-indicator">` + escape(r.EditedLabel) + "</span>"
}
